package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	memeventrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/eventrepo"
	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
)

func newTestService() *Service {
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewService(memeventrepo.NewRepo(), clk)
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	_, err := svc.Create(context.Background(), "u-1", CreateInput{Title: "  "})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != 400 {
		t.Fatalf("err=%v want 400", err)
	}
	if _, ok := ae.Details["title"]; !ok {
		t.Fatalf("details=%v want title", ae.Details)
	}
	if _, ok := ae.Details["date"]; !ok {
		t.Fatalf("details=%v want date", ae.Details)
	}
}

func TestService_CreateAndList_SoonestFirst(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	later, err := svc.Create(ctx, "u-1", CreateInput{Title: "Reunion", Date: time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	blank := "  "
	sooner, err := svc.Create(ctx, "u-2", CreateInput{Title: " Career  Fair ", Date: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), Location: &blank})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sooner.Title != "Career Fair" || sooner.Location != nil || sooner.Organizer != "u-2" {
		t.Fatalf("unexpected event: %+v", sooner)
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var gotIDs []domain.EventID
	for _, e := range got {
		gotIDs = append(gotIDs, e.ID)
	}
	if diff := cmp.Diff([]domain.EventID{sooner.ID, later.ID}, gotIDs); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestService_RSVP(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()
	e, err := svc.Create(ctx, "u-1", CreateInput{Title: "Reunion", Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.RSVP(ctx, "u-2", e.ID); err != nil {
		t.Fatalf("RSVP u-2: %v", err)
	}
	attendees, err := svc.RSVP(ctx, "u-3", e.ID)
	if err != nil {
		t.Fatalf("RSVP u-3: %v", err)
	}
	if diff := cmp.Diff([]domain.UserID{"u-3", "u-2"}, attendees); diff != "" {
		t.Fatalf("attendees (-want +got):\n%s", diff)
	}

	// A second RSVP by the same user is rejected and does not duplicate the attendee.
	_, err = svc.RSVP(ctx, "u-2", e.ID)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != 400 {
		t.Fatalf("duplicate RSVP err=%v want 400", err)
	}
	events, _ := svc.List(ctx)
	if diff := cmp.Diff([]domain.UserID{"u-3", "u-2"}, events[0].Attendees); diff != "" {
		t.Fatalf("attendees after duplicate (-want +got):\n%s", diff)
	}

	_, err = svc.RSVP(ctx, "u-2", "missing")
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("missing event err=%v want 404", err)
	}
}
