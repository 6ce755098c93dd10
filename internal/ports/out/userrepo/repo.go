package userrepo

import (
	"context"
	"errors"

	"github.com/alumni-network/alumni-api/internal/domain"
)

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates a user already exists with the provided ID or email.
	ErrAlreadyExists = errors.New("user already exists")
)

// Repository provides access to identity records.
//
// Emails are stored and looked up normalized (see domain.NormalizeEmail).
type Repository interface {
	Create(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
