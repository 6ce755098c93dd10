package directoryrepo

import (
	"context"
	"errors"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
	"github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

// Repo is the in-memory directory read model. It joins profiles with their identity records
// and evaluates directory.Query.Matches directly.
type Repo struct {
	profiles profilerepo.Repository
	users    userrepo.Repository
}

func NewRepo(profiles profilerepo.Repository, users userrepo.Repository) *Repo {
	return &Repo{profiles: profiles, users: users}
}

func (r *Repo) Find(ctx context.Context, q directory.Query) ([]directory.Record, error) {
	ps, err := r.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]directory.Record, 0, len(ps))
	for _, p := range ps {
		var u *domain.User
		found, err := r.users.GetByID(ctx, p.User)
		switch {
		case err == nil:
			u = &found
		case errors.Is(err, userrepo.ErrNotFound):
		default:
			return nil, err
		}
		rec := directory.Project(p, u)
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Repo) Stats(ctx context.Context) (directory.Stats, error) {
	ps, err := r.profiles.List(ctx)
	if err != nil {
		return directory.Stats{}, err
	}
	return directory.Aggregate(ps), nil
}
