package profilerepo

import (
	"context"
	"errors"

	"github.com/alumni-network/alumni-api/internal/domain"
)

// ErrNotFound indicates the requested profile does not exist.
var ErrNotFound = errors.New("profile not found")

// Repository provides access to persisted profiles.
//
// A profile is keyed by its unique User reference. Upsert replaces the stored document for
// that user (last write wins) and keeps the original ID and CreatedAt when one already exists.
type Repository interface {
	GetByUser(ctx context.Context, user domain.UserID) (domain.Profile, error)
	GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error)

	// Upsert returns the stored profile after the write.
	Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// List returns every profile ordered by ID.
	List(ctx context.Context) ([]domain.Profile, error)
}
