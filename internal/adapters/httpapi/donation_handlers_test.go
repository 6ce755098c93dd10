package httpapi

import (
	"net/http"
	"testing"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
)

func TestDonations_MakeAndList(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Ada Lovelace", "email": "ada@example.com", "password": "secret123",
	})
	requireStatus(t, rec, http.StatusCreated)
	user := decodeBody[apitypes.AuthResponse](t, rec).User

	rec = api.do(t, http.MethodPost, "/api/donations", user.ID, map[string]any{"amount": 25.5, "campaign": " Scholarships "})
	requireStatus(t, rec, http.StatusCreated)
	made := decodeBody[apitypes.Donation](t, rec)
	if made.DonorID != user.ID || made.Amount != 25.5 {
		t.Fatalf("unexpected donation: %+v", made)
	}

	rec = api.do(t, http.MethodPost, "/api/donations", "ext|anon", map[string]any{"amount": 10})
	requireStatus(t, rec, http.StatusCreated)

	rec = api.do(t, http.MethodGet, "/api/donations", user.ID, nil)
	requireStatus(t, rec, http.StatusOK)
	list := decodeBody[[]apitypes.Donation](t, rec)
	if len(list) != 2 {
		t.Fatalf("len=%d want 2", len(list))
	}
	var withDonor, withoutDonor int
	for _, d := range list {
		if d.Donor != nil {
			withDonor++
			if d.Donor.Email != "ada@example.com" {
				t.Fatalf("donor email=%q", d.Donor.Email)
			}
		} else {
			withoutDonor++
		}
	}
	if withDonor != 1 || withoutDonor != 1 {
		t.Fatalf("withDonor=%d withoutDonor=%d", withDonor, withoutDonor)
	}
}

func TestDonations_InvalidAmount(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	for _, body := range []any{
		map[string]any{},
		map[string]any{"amount": 0},
		map[string]any{"amount": -5},
		`{"amount":"ten"}`,
	} {
		rec := api.do(t, http.MethodPost, "/api/donations", "u-1", body)
		requireErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	}
}

func TestDonations_IdempotencyReplay(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	body := map[string]any{"amount": 50, "campaign": "Library"}

	first := api.do(t, http.MethodPost, "/api/donations", "u-1", body, "Idempotency-Key", "k-1")
	requireStatus(t, first, http.StatusCreated)
	second := api.do(t, http.MethodPost, "/api/donations", "u-1", body, "Idempotency-Key", "k-1")
	requireStatus(t, second, http.StatusCreated)

	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}

	rec := api.do(t, http.MethodGet, "/api/donations", "u-1", nil)
	if n := len(decodeBody[[]apitypes.Donation](t, rec)); n != 1 {
		t.Fatalf("ledger has %d entries want 1", n)
	}

	// Keys are scoped per subject.
	other := api.do(t, http.MethodPost, "/api/donations", "u-2", body, "Idempotency-Key", "k-1")
	requireStatus(t, other, http.StatusCreated)
	if other.Header().Get("Idempotent-Replayed") != "" {
		t.Fatalf("unexpected replay for another subject")
	}
}

func TestDonations_IdempotencyKeyReuse409(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/donations", "u-1", map[string]any{"amount": 50}, "Idempotency-Key", "k-1")
	requireStatus(t, rec, http.StatusCreated)

	rec = api.do(t, http.MethodPost, "/api/donations", "u-1", map[string]any{"amount": 75}, "Idempotency-Key", "k-1")
	requireErrorCode(t, rec, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE")
}

func TestDonations_RequireSubject(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/donations", "", nil)
	requireErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}
