package eventrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
)

// Repo is an in-memory implementation of eventrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.EventID]domain.Event
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.EventID]domain.Event)}
}

func (r *Repo) Create(ctx context.Context, e domain.Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; ok {
		return eventrepo.ErrAlreadyExists
	}
	r.byID[e.ID] = cloneEvent(e)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.EventID) (domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return domain.Event{}, eventrepo.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Event, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *Repo) AddAttendee(ctx context.Context, id domain.EventID, user domain.UserID) ([]domain.UserID, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, eventrepo.ErrNotFound
	}
	if e.HasAttendee(user) {
		return nil, eventrepo.ErrAlreadyAttending
	}
	attendees := make([]domain.UserID, 0, len(e.Attendees)+1)
	attendees = append(attendees, user)
	attendees = append(attendees, e.Attendees...)
	e.Attendees = attendees
	r.byID[id] = e
	return append([]domain.UserID(nil), attendees...), nil
}

func cloneEvent(e domain.Event) domain.Event {
	out := e
	if e.Description != nil {
		v := *e.Description
		out.Description = &v
	}
	if e.Location != nil {
		v := *e.Location
		out.Location = &v
	}
	out.Attendees = append([]domain.UserID{}, e.Attendees...)
	return out
}
