package contracttest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alumni-network/alumni-api/internal/domain"
	donationrepoport "github.com/alumni-network/alumni-api/internal/ports/out/donationrepo"
	eventrepoport "github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
	idempotencyport "github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
	profilerepoport "github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
	userrepoport "github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)
type EventRepoFactory func(t *testing.T) (eventrepoport.Repository, CleanupFunc)
type DonationRepoFactory func(t *testing.T) (donationrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/api/donations",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Fingerprints differing only by body hash are distinct records.
	other := fp
	other.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected miss for different body hash, ok=%v err=%v", ok, err)
	}

	purger, ok := store.(idempotencyport.Purger)
	if !ok {
		return
	}
	fresh := other
	if err := store.Put(ctx, fresh, idempotencyport.Record{StatusCode: 201, ContentType: "application/json", Body: []byte(`{}`), CreatedAt: time.Unix(500, 0).UTC()}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	if _, err := purger.PurgeBefore(ctx, time.Unix(200, 0).UTC()); err != nil {
		t.Fatalf("PurgeBefore: %v", err)
	}
	if _, ok, _ := store.Get(ctx, fp); ok {
		t.Fatalf("expected record older than cutoff to be purged")
	}
	if _, ok, _ := store.Get(ctx, fresh); !ok {
		t.Fatalf("expected record newer than cutoff to survive")
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	id := domain.UserID(uuid.NewString())
	email := uuid.NewString() + "@example.com"
	if err := repo.Create(ctx, domain.User{ID: id, Name: "Asha Rao", Email: email, PasswordHash: "hash", CreatedAt: now}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Asha Rao" || got.Email != email || got.PasswordHash != "hash" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}

	// Email lookup is case-insensitive.
	byEmail, err := repo.GetByEmail(ctx, "  "+strings.ToUpper(email))
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != id {
		t.Fatalf("GetByEmail id=%s want %s", byEmail.ID, id)
	}

	// Email uniqueness.
	err = repo.Create(ctx, domain.User{ID: domain.UserID(uuid.NewString()), Name: "Other", Email: strings.ToUpper(email), PasswordHash: "x", CreatedAt: now})
	if !errors.Is(err, userrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate email err=%v want ErrAlreadyExists", err)
	}

	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("missing id err=%v want ErrNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody-"+email); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("missing email err=%v want ErrNotFound", err)
	}
}

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	created := time.Unix(2000, 0).UTC()
	user := domain.UserID(uuid.NewString())
	firstID := domain.ProfileID(uuid.NewString())
	p := domain.Profile{
		ID:             firstID,
		User:           user,
		Bio:            strPtr("Builds things"),
		Major:          strPtr("Computer Science"),
		GraduationYear: intPtr(2020),
		Company:        strPtr("Google"),
		Location:       strPtr("Pune"),
		Skills:         []string{"Go", "SQL"},
		Social:         domain.Social{LinkedIn: strPtr("https://linkedin.example/asha")},
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	stored, err := repo.Upsert(ctx, p)
	if err != nil {
		t.Fatalf("Upsert create: %v", err)
	}
	if stored.ID != firstID {
		t.Fatalf("stored id=%s want %s", stored.ID, firstID)
	}

	got, err := repo.GetByUser(ctx, user)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if got.ID != firstID || deref(got.Major) != "Computer Science" || got.GraduationYear == nil || *got.GraduationYear != 2020 {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "Go" || got.Skills[1] != "SQL" {
		t.Fatalf("skills=%v want [Go SQL]", got.Skills)
	}
	if deref(got.Social.LinkedIn) != "https://linkedin.example/asha" || got.Social.Twitter != nil {
		t.Fatalf("unexpected social: %+v", got.Social)
	}

	// Second upsert for the same user replaces fields but keeps identity and creation time.
	updated := time.Unix(3000, 0).UTC()
	p2 := domain.Profile{
		ID:        domain.ProfileID(uuid.NewString()),
		User:      user,
		Company:   strPtr("Citi"),
		Skills:    []string{},
		CreatedAt: updated,
		UpdatedAt: updated,
	}
	stored, err = repo.Upsert(ctx, p2)
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if stored.ID != firstID || !stored.CreatedAt.Equal(created) || !stored.UpdatedAt.Equal(updated) {
		t.Fatalf("upsert changed identity: id=%s created=%v updated=%v", stored.ID, stored.CreatedAt, stored.UpdatedAt)
	}
	got, err = repo.GetByID(ctx, firstID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Bio != nil || got.Major != nil || deref(got.Company) != "Citi" || len(got.Skills) != 0 {
		t.Fatalf("expected replaced profile, got %+v", got)
	}

	// Another user's profile shows up in List.
	otherID := domain.ProfileID(uuid.NewString())
	if _, err := repo.Upsert(ctx, domain.Profile{ID: otherID, User: domain.UserID(uuid.NewString()), CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("Upsert other: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	seen := map[domain.ProfileID]bool{}
	for i, p := range all {
		seen[p.ID] = true
		if i > 0 && all[i-1].ID >= p.ID {
			t.Fatalf("List not ordered by id: %s then %s", all[i-1].ID, p.ID)
		}
	}
	if !seen[firstID] || !seen[otherID] {
		t.Fatalf("List missing profiles: %v", seen)
	}

	if _, err := repo.GetByUser(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("missing user err=%v want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, domain.ProfileID(uuid.NewString())); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("missing id err=%v want ErrNotFound", err)
	}
}

func RunEventRepo(t *testing.T, newRepo EventRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	organizer := domain.UserID(uuid.NewString())
	later := domain.Event{
		ID:        domain.EventID(uuid.NewString()),
		Title:     "Homecoming",
		Date:      time.Date(2030, 10, 1, 18, 0, 0, 0, time.UTC),
		Location:  strPtr("Main Hall"),
		Organizer: organizer,
		CreatedAt: time.Unix(100, 0).UTC(),
	}
	sooner := domain.Event{
		ID:          domain.EventID(uuid.NewString()),
		Title:       "Networking Night",
		Description: strPtr("Drinks and intros"),
		Date:        time.Date(2030, 3, 1, 18, 0, 0, 0, time.UTC),
		Organizer:   organizer,
		CreatedAt:   time.Unix(100, 0).UTC(),
	}
	for _, e := range []domain.Event{later, sooner} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create %s: %v", e.Title, err)
		}
	}
	if err := repo.Create(ctx, later); !errors.Is(err, eventrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate create err=%v want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, sooner.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Networking Night" || deref(got.Description) != "Drinks and intros" || got.Location != nil || !got.Date.Equal(sooner.Date) {
		t.Fatalf("unexpected event: %+v", got)
	}
	if len(got.Attendees) != 0 {
		t.Fatalf("attendees=%v want empty", got.Attendees)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	idx := map[domain.EventID]int{}
	for i, e := range all {
		idx[e.ID] = i
	}
	si, ok1 := idx[sooner.ID]
	li, ok2 := idx[later.ID]
	if !ok1 || !ok2 || si > li {
		t.Fatalf("List not ordered by date ascending: %+v", all)
	}

	u1, u2 := domain.UserID(uuid.NewString()), domain.UserID(uuid.NewString())
	if _, err := repo.AddAttendee(ctx, later.ID, u1); err != nil {
		t.Fatalf("AddAttendee u1: %v", err)
	}
	attendees, err := repo.AddAttendee(ctx, later.ID, u2)
	if err != nil {
		t.Fatalf("AddAttendee u2: %v", err)
	}
	if len(attendees) != 2 || attendees[0] != u2 || attendees[1] != u1 {
		t.Fatalf("attendees=%v want [u2 u1]", attendees)
	}
	if _, err := repo.AddAttendee(ctx, later.ID, u1); !errors.Is(err, eventrepoport.ErrAlreadyAttending) {
		t.Fatalf("repeat rsvp err=%v want ErrAlreadyAttending", err)
	}
	got, _ = repo.GetByID(ctx, later.ID)
	if len(got.Attendees) != 2 {
		t.Fatalf("repeat rsvp duplicated attendee: %v", got.Attendees)
	}
	if _, err := repo.AddAttendee(ctx, domain.EventID(uuid.NewString()), u1); !errors.Is(err, eventrepoport.ErrNotFound) {
		t.Fatalf("missing event err=%v want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, domain.EventID(uuid.NewString())); !errors.Is(err, eventrepoport.ErrNotFound) {
		t.Fatalf("missing event err=%v want ErrNotFound", err)
	}
}

func RunDonationRepo(t *testing.T, newRepo DonationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	donor := domain.UserID(uuid.NewString())
	older := domain.Donation{ID: domain.DonationID(uuid.NewString()), Donor: donor, Amount: 25.5, Date: time.Unix(1000, 0).UTC()}
	newer := domain.Donation{ID: domain.DonationID(uuid.NewString()), Donor: donor, Amount: 100, Campaign: strPtr("Scholarships"), Date: time.Unix(2000, 0).UTC()}
	for _, d := range []domain.Donation{older, newer} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, older); !errors.Is(err, donationrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate err=%v want ErrAlreadyExists", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []domain.Donation
	for _, d := range all {
		if d.Donor == donor {
			got = append(got, d)
		}
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("List not newest first: %+v", got)
	}
	if got[0].Amount != 100 || deref(got[0].Campaign) != "Scholarships" || got[1].Campaign != nil {
		t.Fatalf("unexpected donations: %+v", got)
	}
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
