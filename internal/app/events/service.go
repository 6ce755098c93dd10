// Package events schedules alumni events and records RSVPs.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
	clockport "github.com/alumni-network/alumni-api/internal/ports/out/clock"
	"github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
)

type Service struct {
	repo eventrepo.Repository
	clk  clockport.Clock

	newEventID func() domain.EventID
}

func NewService(repo eventrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newEventID: func() domain.EventID {
			return domain.EventID(uuid.NewString())
		},
	}
}

type CreateInput struct {
	Title       string
	Description *string
	Date        time.Time
	Location    *string
}

// Create schedules an event organized by subject.
func (s *Service) Create(ctx context.Context, subject domain.SubjectID, in CreateInput) (domain.Event, error) {
	details := map[string]any{}
	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		details["title"] = "is required"
	}
	if in.Date.IsZero() {
		details["date"] = "is required"
	}
	if len(details) > 0 {
		return domain.Event{}, apperr.Validation("invalid event", details)
	}

	e := domain.Event{
		ID:          s.newEventID(),
		Title:       title,
		Description: trimmedOrNil(in.Description),
		Date:        in.Date.UTC(),
		Location:    trimmedOrNil(in.Location),
		Organizer:   domain.UserIDFromSubject(subject),
		Attendees:   []domain.UserID{},
		CreatedAt:   s.clk.Now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// List returns every event, soonest first.
func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	es, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if es == nil {
		es = []domain.Event{}
	}
	return es, nil
}

// RSVP adds subject to the event's attendees and returns them, most recent first.
func (s *Service) RSVP(ctx context.Context, subject domain.SubjectID, id domain.EventID) ([]domain.UserID, error) {
	attendees, err := s.repo.AddAttendee(ctx, id, domain.UserIDFromSubject(subject))
	switch {
	case err == nil:
		return attendees, nil
	case errors.Is(err, eventrepo.ErrNotFound):
		return nil, apperr.NotFound("Event not found")
	case errors.Is(err, eventrepo.ErrAlreadyAttending):
		return nil, apperr.Validation("User already RSVP'd to this event", nil)
	default:
		return nil, fmt.Errorf("rsvp: %w", err)
	}
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
