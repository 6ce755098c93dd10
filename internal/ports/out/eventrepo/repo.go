package eventrepo

import (
	"context"
	"errors"

	"github.com/alumni-network/alumni-api/internal/domain"
)

var (
	// ErrNotFound indicates the requested event does not exist.
	ErrNotFound = errors.New("event not found")

	// ErrAlreadyExists indicates an event already exists with the provided ID.
	ErrAlreadyExists = errors.New("event already exists")

	// ErrAlreadyAttending indicates the user already RSVP'd to the event.
	ErrAlreadyAttending = errors.New("already attending")
)

// Repository provides access to persisted events.
type Repository interface {
	Create(ctx context.Context, e domain.Event) error
	GetByID(ctx context.Context, id domain.EventID) (domain.Event, error)

	// List returns every event ordered by Date ascending, then ID.
	List(ctx context.Context) ([]domain.Event, error)

	// AddAttendee atomically prepends user to the attendee list unless already present and
	// returns the resulting list (most recent first).
	AddAttendee(ctx context.Context, id domain.EventID, user domain.UserID) ([]domain.UserID, error)
}
