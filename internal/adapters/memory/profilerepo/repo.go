package profilerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID     map[domain.ProfileID]domain.Profile
	idByUser map[domain.UserID]domain.ProfileID
}

func NewRepo() *Repo {
	return &Repo{
		byID:     make(map[domain.ProfileID]domain.Profile),
		idByUser: make(map[domain.UserID]domain.ProfileID),
	}
}

func (r *Repo) GetByUser(ctx context.Context, user domain.UserID) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByUser[user]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *Repo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, ok := r.idByUser[p.User]; ok {
		existing := r.byID[existingID]
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	stored := p.Clone()
	r.byID[stored.ID] = stored
	r.idByUser[stored.User] = stored.ID
	return stored.Clone(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
