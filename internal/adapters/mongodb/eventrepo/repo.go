package eventrepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alumni-network/alumni-api/internal/adapters/mongodb"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
)

// Repo is a MongoDB implementation of eventrepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.EventsCollection)}
}

func (r *Repo) Create(ctx context.Context, e domain.Event) error {
	if _, err := r.coll.InsertOne(ctx, mongodb.EventFromDomain(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return eventrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.EventID) (domain.Event, error) {
	var doc mongodb.EventDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Event{}, eventrepo.ErrNotFound
		}
		return domain.Event{}, err
	}
	return doc.ToDomain(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongodb.EventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToDomain())
	}
	return out, nil
}

// AddAttendee filters on the attendee being absent so the check and the $push happen in one
// document update.
func (r *Repo) AddAttendee(ctx context.Context, id domain.EventID, user domain.UserID) ([]domain.UserID, error) {
	filter := bson.M{"_id": string(id), "attendees": bson.M{"$ne": string(user)}}
	update := bson.M{"$push": bson.M{"attendees": bson.M{
		"$each":     bson.A{string(user)},
		"$position": 0,
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongodb.EventDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.ToDomain().Attendees, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, eventrepo.ErrNotFound
	}
	return nil, eventrepo.ErrAlreadyAttending
}
