package donationrepo

import (
	"context"
	"errors"

	"github.com/alumni-network/alumni-api/internal/domain"
)

// ErrAlreadyExists indicates a donation already exists with the provided ID.
var ErrAlreadyExists = errors.New("donation already exists")

// Repository provides access to the donation ledger.
type Repository interface {
	Create(ctx context.Context, d domain.Donation) error

	// List returns every donation ordered by Date descending, then ID.
	List(ctx context.Context) ([]domain.Donation, error)
}
