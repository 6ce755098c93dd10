package directory

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alumni-network/alumni-api/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestProject_PrefersIdentityRecord(t *testing.T) {
	t.Parallel()

	p := domain.Profile{
		ID:     "p1",
		User:   "u1",
		Name:   strPtr("Local Name"),
		Email:  strPtr("local@example.com"),
		Major:  strPtr("Engineering"),
		Social: domain.Social{LinkedIn: strPtr("https://linkedin.example/a")},
		Skills: []string{"Go"},
	}
	u := &domain.User{ID: "u1", Name: "Identity Name", Email: "id@example.com"}

	got := Project(p, u)
	want := Record{
		ID:         "p1",
		Name:       "Identity Name",
		Email:      "id@example.com",
		Department: "Engineering",
		LinkedIn:   "https://linkedin.example/a",
		Skills:     []string{"Go"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_FallsBackToProfileCopiesAndNeutralValues(t *testing.T) {
	t.Parallel()

	p := domain.Profile{ID: "p1", User: "sub-x", Name: strPtr("Local Name")}
	got := Project(p, nil)
	if got.Name != "Local Name" || got.Email != "" {
		t.Fatalf("got name=%q email=%q", got.Name, got.Email)
	}
	if got.Skills == nil || len(got.Skills) != 0 {
		t.Fatalf("skills=%v, want empty non-nil slice", got.Skills)
	}
	if got.GraduationYear != nil {
		t.Fatalf("graduationYear=%v, want nil", *got.GraduationYear)
	}
}

func TestProject_DoesNotAliasProfileState(t *testing.T) {
	t.Parallel()

	y := 2019
	p := domain.Profile{ID: "p1", GraduationYear: &y, Skills: []string{"Go"}}
	got := Project(p, nil)
	*got.GraduationYear = 1999
	got.Skills[0] = "Rust"
	if *p.GraduationYear != 2019 || p.Skills[0] != "Go" {
		t.Fatalf("projection aliased profile state")
	}
}
