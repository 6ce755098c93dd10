package donationrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/donationrepo"
)

// Repo is an in-memory implementation of donationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.DonationID]domain.Donation
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.DonationID]domain.Donation)}
}

func (r *Repo) Create(ctx context.Context, d domain.Donation) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[d.ID]; ok {
		return donationrepo.ErrAlreadyExists
	}
	if d.Campaign != nil {
		v := *d.Campaign
		d.Campaign = &v
	}
	r.byID[d.ID] = d
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Donation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Donation, 0, len(r.byID))
	for _, d := range r.byID {
		if d.Campaign != nil {
			v := *d.Campaign
			d.Campaign = &v
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}
