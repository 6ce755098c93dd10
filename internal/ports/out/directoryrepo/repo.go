package directoryrepo

import (
	"context"

	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

// Repository is the directory read model: profiles joined with their identity records and
// projected to directory.Record.
//
// Implementations translate the query into their native filter language but must agree with
// directory.Query.Matches. Result order is unspecified; the application layer sorts.
type Repository interface {
	Find(ctx context.Context, q directory.Query) ([]directory.Record, error)
	Stats(ctx context.Context) (directory.Stats, error)
}
