package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/api/donations",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}
}

func TestStore_PurgeBefore_RemovesOnlyOlderRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	old := idempotency.Fingerprint{Key: "old", Subject: "sub-1"}
	fresh := idempotency.Fingerprint{Key: "fresh", Subject: "sub-1"}
	_ = s.Put(ctx, old, idempotency.Record{StatusCode: 201, CreatedAt: time.Unix(100, 0).UTC()})
	_ = s.Put(ctx, fresh, idempotency.Record{StatusCode: 201, CreatedAt: time.Unix(300, 0).UTC()})

	n, err := s.PurgeBefore(ctx, time.Unix(200, 0).UTC())
	if err != nil {
		t.Fatalf("PurgeBefore() err=%v", err)
	}
	if n != 1 {
		t.Fatalf("purged=%d want 1", n)
	}
	if _, ok, _ := s.Get(ctx, old); ok {
		t.Fatalf("old record still present")
	}
	if _, ok, _ := s.Get(ctx, fresh); !ok {
		t.Fatalf("fresh record was purged")
	}
}
