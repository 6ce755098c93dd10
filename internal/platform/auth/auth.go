// Package auth holds what every bearer-token verifier shares.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned for any token that fails verification. Callers should not
// distinguish the underlying reason in responses.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier checks a bearer token and returns the authenticated subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
