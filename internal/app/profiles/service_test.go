package profiles

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	memprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/memory/profilerepo"
	memuserrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/userrepo"
	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock, *memuserrepo.Repo) {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	users := memuserrepo.NewRepo()
	return NewService(memprofilerepo.NewRepo(), users, clk), clk, users
}

func TestService_GetMine_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.GetMine(context.Background(), "u-1")
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != apperr.CodeNotFound {
		t.Fatalf("err=%v want 404 NOT_FOUND", err)
	}
}

func TestService_Upsert_CreateThenUpdate(t *testing.T) {
	t.Parallel()

	svc, clk, users := newTestService(t)
	ctx := context.Background()
	if err := users.Create(ctx, domain.User{ID: "u-1", Name: "Asha Rao", Email: "asha@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	created, err := svc.Upsert(ctx, "u-1", Patch{
		Major:          Some("  Computer Science "),
		GraduationYear: Some(2020),
		Company:        Some("Google"),
		Skills:         Some([]string{" Go ", "", "SQL"}),
		LinkedIn:       Some("https://linkedin.example/asha"),
	})
	if err != nil {
		t.Fatalf("Upsert create: %v", err)
	}
	if created.Name != "Asha Rao" || created.Email != "asha@example.com" {
		t.Fatalf("identity not resolved: %+v", created)
	}
	p := created.Profile
	if p.Major == nil || *p.Major != "Computer Science" {
		t.Fatalf("major=%v want trimmed", p.Major)
	}
	if diff := cmp.Diff([]string{"Go", "SQL"}, p.Skills); diff != "" {
		t.Fatalf("skills (-want +got):\n%s", diff)
	}
	createdAt := p.CreatedAt

	clk.Advance(time.Hour)
	updated, err := svc.Upsert(ctx, "u-1", Patch{
		Company:        Some("   "),
		GraduationYear: Null[int](),
		Location:       Some("Pune"),
	})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	up := updated.Profile
	if up.ID != p.ID || !up.CreatedAt.Equal(createdAt) {
		t.Fatalf("identity changed: id=%s createdAt=%v", up.ID, up.CreatedAt)
	}
	if up.Company != nil {
		t.Fatalf("company=%q want cleared", *up.Company)
	}
	if up.GraduationYear != nil {
		t.Fatalf("graduationYear=%d want cleared", *up.GraduationYear)
	}
	if up.Major == nil || *up.Major != "Computer Science" {
		t.Fatalf("omitted major must be unchanged, got %v", up.Major)
	}
	if up.Location == nil || *up.Location != "Pune" {
		t.Fatalf("location=%v want Pune", up.Location)
	}
	if !up.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("updatedAt=%v want %v", up.UpdatedAt, clk.Now())
	}

	got, err := svc.GetMine(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetMine: %v", err)
	}
	if got.Profile.ID != p.ID {
		t.Fatalf("GetMine id=%s want %s", got.Profile.ID, p.ID)
	}
}

func TestService_Upsert_ProfileLocalIdentityFallback(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	got, err := svc.Upsert(context.Background(), "ext|42", Patch{Name: Some("  Chen   Li "), Email: Some("Chen@Example.com")})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got.Name != "Chen Li" || got.Email != "chen@example.com" {
		t.Fatalf("name=%q email=%q", got.Name, got.Email)
	}
}

func TestService_Upsert_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		patch Patch
		field string
	}{
		{"bio too long", Patch{Bio: Some(strings.Repeat("é", MaxBioLength+1))}, "bio"},
		{"year too early", Patch{GraduationYear: Some(1899)}, "graduationYear"},
		{"year too far ahead", Patch{GraduationYear: Some(2035)}, "graduationYear"},
	}
	for _, tc := range cases {
		_, err := svc.Upsert(ctx, "u-1", tc.patch)
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.Status != 400 {
			t.Fatalf("%s: err=%v want 400", tc.name, err)
		}
		if _, ok := ae.Details[tc.field]; !ok {
			t.Fatalf("%s: details=%v want key %q", tc.name, ae.Details, tc.field)
		}
	}

	// Boundaries are inclusive.
	if _, err := svc.Upsert(ctx, "u-1", Patch{Bio: Some(strings.Repeat("a", MaxBioLength)), GraduationYear: Some(2034)}); err != nil {
		t.Fatalf("boundary values rejected: %v", err)
	}
	if _, err := svc.GetMine(ctx, "u-1"); err != nil {
		t.Fatalf("expected profile after valid upsert: %v", err)
	}
}

func TestService_Upsert_RejectedPatchDoesNotPersist(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.Upsert(context.Background(), "u-1", Patch{GraduationYear: Some(1800)})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.GetMine(context.Background(), "u-1"); err == nil {
		t.Fatalf("expected no profile after rejected create")
	}
}
