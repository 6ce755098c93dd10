package profilerepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alumni-network/alumni-api/internal/adapters/mongodb"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
)

// Repo is a MongoDB implementation of profilerepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.ProfilesCollection)}
}

func (r *Repo) GetByUser(ctx context.Context, user domain.UserID) (domain.Profile, error) {
	return r.findOne(ctx, bson.M{"user": string(user)})
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

// Upsert is a single findOneAndUpdate keyed by user. _id and createdAt are only written on
// insert; nil optional fields are removed from an existing document.
func (r *Repo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	update := upsertUpdate(mongodb.ProfileFromDomain(p))
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc mongodb.ProfileDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": string(p.User)}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent insert for the same user won; the retry takes the update path.
		err = r.coll.FindOneAndUpdate(ctx, bson.M{"user": string(p.User)}, update, opts).Decode(&doc)
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Profile, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongodb.ProfileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ToDomain())
	}
	return out, nil
}

func (r *Repo) findOne(ctx context.Context, filter bson.M) (domain.Profile, error) {
	var doc mongodb.ProfileDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Profile{}, profilerepo.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return doc.ToDomain(), nil
}

func upsertUpdate(d mongodb.ProfileDoc) bson.M {
	set := bson.M{
		"skills":    d.Skills,
		"updatedAt": d.UpdatedAt,
	}
	unset := bson.M{}
	optional := map[string]any{
		"name":            d.Name,
		"email":           d.Email,
		"bio":             d.Bio,
		"major":           d.Major,
		"graduationYear":  d.GraduationYear,
		"company":         d.Company,
		"jobTitle":        d.JobTitle,
		"location":        d.Location,
		"profilePicture":  d.ProfilePicture,
		"social.linkedin": d.Social.LinkedIn,
		"social.twitter":  d.Social.Twitter,
		"social.website":  d.Social.Website,
	}
	for field, v := range optional {
		if isNilPtr(v) {
			unset[field] = ""
			continue
		}
		set[field] = v
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": d.ID, "createdAt": d.CreatedAt},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func isNilPtr(v any) bool {
	switch p := v.(type) {
	case *string:
		return p == nil
	case *int:
		return p == nil
	}
	return v == nil
}
