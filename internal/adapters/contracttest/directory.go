package contracttest

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
	directoryrepoport "github.com/alumni-network/alumni-api/internal/ports/out/directoryrepo"
	profilerepoport "github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
	userrepoport "github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

// DirectoryFixture bundles a directory read model with the write repositories it reads from.
// The stores must start empty.
type DirectoryFixture struct {
	Directory directoryrepoport.Repository
	Users     userrepoport.Repository
	Profiles  profilerepoport.Repository
}

type DirectoryFactory func(t *testing.T) (DirectoryFixture, CleanupFunc)

// RunDirectoryRepo seeds four alumni and checks every query shape against the expected ids and
// against directory.Query.Matches, so store-native query translations stay in step with the
// shared predicate.
func RunDirectoryRepo(t *testing.T, newFixture DirectoryFactory) {
	t.Helper()
	ctx := context.Background()

	fx, cleanup := newFixture(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(5000, 0).UTC()
	seedUser := func(name, email string) domain.UserID {
		t.Helper()
		id := domain.UserID(uuid.NewString())
		if err := fx.Users.Create(ctx, domain.User{ID: id, Name: name, Email: email, PasswordHash: "x", CreatedAt: now}); err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
		return id
	}
	seedProfile := func(p domain.Profile) domain.ProfileID {
		t.Helper()
		p.ID = domain.ProfileID(uuid.NewString())
		p.CreatedAt, p.UpdatedAt = now, now
		if _, err := fx.Profiles.Upsert(ctx, p); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
		return p.ID
	}

	asha := seedProfile(domain.Profile{
		User:           seedUser("Asha Rao", "asha-"+uuid.NewString()+"@example.com"),
		Bio:            strPtr("Builds search"),
		Major:          strPtr("Computer Science"),
		GraduationYear: intPtr(2020),
		Company:        strPtr("Google India"),
		JobTitle:       strPtr("SWE"),
		Location:       strPtr("Greater Pune Area"),
		Skills:         []string{"Go", "Kubernetes"},
		Social:         domain.Social{LinkedIn: strPtr("https://linkedin.example/asha")},
	})
	bilal := seedProfile(domain.Profile{
		User:           seedUser("Bilal Khan", "bilal-"+uuid.NewString()+"@example.com"),
		Major:          strPtr("Finance"),
		GraduationYear: intPtr(2021),
		Company:        strPtr("Citi"),
		JobTitle:       strPtr("Analyst"),
		Location:       strPtr("Mumbai"),
		Skills:         []string{"Excel"},
	})
	// No identity record: name comes from the profile-local copy.
	chen := seedProfile(domain.Profile{
		User:     domain.UserID("external-" + uuid.NewString()),
		Name:     strPtr("Chen Local"),
		Location: strPtr("Pune"),
	})
	dana := seedProfile(domain.Profile{
		User:           seedUser("Dana Iyer", "dana-"+uuid.NewString()+"@example.com"),
		Bio:            strPtr("100% remote_worker"),
		Major:          strPtr("Biology"),
		GraduationYear: intPtr(2020),
		Company:        strPtr("Max Healthcare"),
		Location:       strPtr("Delhi"),
	})

	all, err := fx.Directory.Find(ctx, directory.Query{})
	if err != nil {
		t.Fatalf("Find all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Find all len=%d want 4", len(all))
	}

	byID := map[domain.ProfileID]directory.Record{}
	for _, r := range all {
		byID[r.ID] = r
	}
	wantAsha := directory.Record{
		ID:             asha,
		Name:           "Asha Rao",
		Email:          byID[asha].Email,
		GraduationYear: intPtr(2020),
		Department:     "Computer Science",
		JobTitle:       "SWE",
		Company:        "Google India",
		Location:       "Greater Pune Area",
		Bio:            "Builds search",
		LinkedIn:       "https://linkedin.example/asha",
		Skills:         []string{"Go", "Kubernetes"},
	}
	if diff := cmp.Diff(wantAsha, byID[asha]); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
	if byID[asha].Email == "" {
		t.Fatalf("expected identity email on joined record")
	}
	if c := byID[chen]; c.Name != "Chen Local" || c.Email != "" || c.Skills == nil || len(c.Skills) != 0 || c.GraduationYear != nil {
		t.Fatalf("unexpected neutral projection: %+v", c)
	}

	cases := []struct {
		name string
		q    directory.Query
		want []domain.ProfileID
	}{
		{"year", directory.Query{GraduationYear: intPtr(2020)}, []domain.ProfileID{asha, dana}},
		{"department exact", directory.Query{Department: "Finance"}, []domain.ProfileID{bilal}},
		{"department case sensitive", directory.Query{Department: "finance"}, nil},
		{"location substring", directory.Query{Location: "pune"}, []domain.ProfileID{asha, chen}},
		{"company substring", directory.Query{Company: "GOO"}, []domain.ProfileID{asha}},
		{"company type tech", directory.Query{CompanyType: directory.CompanyTypeTech}, []domain.ProfileID{asha}},
		{"company type healthcare", directory.Query{CompanyType: directory.CompanyTypeHealthcare}, []domain.ProfileID{dana}},
		{"company type unknown", directory.Query{CompanyType: "Aerospace"}, []domain.ProfileID{asha, bilal, chen, dana}},
		{"company type name is exact", directory.Query{CompanyType: "tech"}, []domain.ProfileID{asha, bilal, chen, dana}},
		{"text joined name", directory.Query{Text: "asha"}, []domain.ProfileID{asha}},
		{"text local name", directory.Query{Text: "chen"}, []domain.ProfileID{chen}},
		{"text job title", directory.Query{Text: "analyst"}, []domain.ProfileID{bilal}},
		{"text bio", directory.Query{Text: "REMOTE"}, []domain.ProfileID{dana}},
		{"text skill exact", directory.Query{Text: "Kubernetes"}, []domain.ProfileID{asha}},
		{"text skill case", directory.Query{Text: "kubernetes"}, nil},
		{"text percent literal", directory.Query{Text: "%"}, []domain.ProfileID{dana}},
		{"text underscore literal", directory.Query{Text: "_"}, []domain.ProfileID{dana}},
		{"conjunction", directory.Query{GraduationYear: intPtr(2020), CompanyType: directory.CompanyTypeHealthcare}, []domain.ProfileID{dana}},
		{"conjunction empty", directory.Query{Location: "Mumbai", GraduationYear: intPtr(2020)}, nil},
	}
	for _, tc := range cases {
		got, err := fx.Directory.Find(ctx, tc.q)
		if err != nil {
			t.Fatalf("%s: Find: %v", tc.name, err)
		}
		if diff := cmp.Diff(sortedIDs(tc.want), recordIDs(got)); diff != "" {
			t.Fatalf("%s: ids mismatch (-want +got):\n%s", tc.name, diff)
		}
		var viaPredicate []domain.ProfileID
		for _, r := range all {
			if tc.q.Matches(r) {
				viaPredicate = append(viaPredicate, r.ID)
			}
		}
		if diff := cmp.Diff(sortedIDs(viaPredicate), recordIDs(got)); diff != "" {
			t.Fatalf("%s: store disagrees with shared predicate (-predicate +store):\n%s", tc.name, diff)
		}
	}

	stats, err := fx.Directory.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 4 {
		t.Fatalf("Total=%d want 4", stats.Total)
	}
	var years []string
	for _, y := range stats.ByGraduationYear {
		years = append(years, yearKey(y))
	}
	if diff := cmp.Diff([]string{"2021:1", "2020:2", "null:1"}, years); diff != "" {
		t.Fatalf("ByGraduationYear mismatch (-want +got):\n%s", diff)
	}
	var majors []string
	for _, m := range stats.ByMajor {
		majors = append(majors, valueKey(m))
	}
	if diff := cmp.Diff([]string{"Biology:1", "Computer Science:1", "Finance:1", "null:1"}, majors); diff != "" {
		t.Fatalf("ByMajor mismatch (-want +got):\n%s", diff)
	}
	if len(stats.TopLocations) != 4 || len(stats.TopCompanies) != 4 {
		t.Fatalf("locations=%d companies=%d want 4 and 4", len(stats.TopLocations), len(stats.TopCompanies))
	}
	if last := stats.TopCompanies[3]; last.Value != nil || last.Count != 1 {
		t.Fatalf("null company group=%s want null:1", valueKey(last))
	}
}

func recordIDs(rs []directory.Record) []domain.ProfileID {
	out := make([]domain.ProfileID, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return sortedIDs(out)
}

func sortedIDs(ids []domain.ProfileID) []domain.ProfileID {
	out := append([]domain.ProfileID{}, ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func yearKey(y directory.YearCount) string {
	if y.Year == nil {
		return "null:" + strconv.Itoa(y.Count)
	}
	return strconv.Itoa(*y.Year) + ":" + strconv.Itoa(y.Count)
}

func valueKey(v directory.ValueCount) string {
	if v.Value == nil {
		return "null:" + strconv.Itoa(v.Count)
	}
	return *v.Value + ":" + strconv.Itoa(v.Count)
}
