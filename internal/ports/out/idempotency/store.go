package idempotency

import (
	"context"
	"time"

	"github.com/alumni-network/alumni-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes: key + subject + route +
// request body hash. Route is the HTTP method plus the route template (e.g. "POST /api/donations").
//
// A fingerprint with an empty BodyHash is the key's meta record; its Body holds the body hash
// the key was first used with.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying safe responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}

// Purger is implemented by stores that need explicit expiry. It removes records created
// before cutoff and reports how many were removed.
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
