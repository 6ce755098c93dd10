package userrepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alumni-network/alumni-api/internal/adapters/mongodb"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

// Repo is a MongoDB implementation of userrepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.UsersCollection)}
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	if _, err := r.coll.InsertOne(ctx, mongodb.UserFromDomain(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *Repo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc mongodb.UserDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, err
	}
	return doc.ToDomain(), nil
}
