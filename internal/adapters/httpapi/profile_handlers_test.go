package httpapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
)

func TestProfile_GetMineMissingIs404(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/profile/me", "u-1", nil)
	er := requireErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
	if er.Error.Message != "There is no profile for this user" {
		t.Fatalf("message=%q", er.Error.Message)
	}
}

func TestProfile_UpsertTriState(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/profile", "u-1", map[string]any{
		"name":     "  Ada Lovelace ",
		"company":  " Google ",
		"location": "London",
		"skills":   []string{" Go ", "", "SQL"},
		"linkedin": "https://linkedin.com/in/ada",
	})
	requireStatus(t, rec, http.StatusOK)
	first := decodeBody[apitypes.Profile](t, rec)
	if first.Company == nil || *first.Company != "Google" {
		t.Fatalf("company=%v want Google", first.Company)
	}
	if strings.Join(first.Skills, ",") != "Go,SQL" {
		t.Fatalf("skills=%v want [Go SQL]", first.Skills)
	}
	if first.Social.LinkedIn == nil {
		t.Fatalf("expected social.linkedin to be set")
	}

	// omitted fields stay, null and "" clear
	rec = api.do(t, http.MethodPost, "/api/profile", "u-1", `{"company":null,"location":"","jobTitle":"Engineer"}`)
	requireStatus(t, rec, http.StatusOK)
	second := decodeBody[apitypes.Profile](t, rec)
	if second.ID != first.ID {
		t.Fatalf("id changed: %q -> %q", first.ID, second.ID)
	}
	if second.Company != nil || second.Location != nil {
		t.Fatalf("expected company and location cleared, got %v %v", second.Company, second.Location)
	}
	if second.JobTitle == nil || *second.JobTitle != "Engineer" {
		t.Fatalf("jobTitle=%v want Engineer", second.JobTitle)
	}
	if second.Name != "Ada Lovelace" || len(second.Skills) != 2 {
		t.Fatalf("unexpected carried fields: name=%q skills=%v", second.Name, second.Skills)
	}

	rec = api.do(t, http.MethodGet, "/api/profile/me", "u-1", nil)
	requireStatus(t, rec, http.StatusOK)
	if got := decodeBody[apitypes.Profile](t, rec); got.User != "u-1" {
		t.Fatalf("user=%q want u-1", got.User)
	}
}

func TestProfile_UpsertValidation(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	cases := []any{
		map[string]any{"graduationYear": 1800},
		map[string]any{"graduationYear": 2100},
		map[string]any{"bio": strings.Repeat("x", 501)},
		`{"graduationYear":"2019"}`,
		`{not json`,
	}
	for _, body := range cases {
		rec := api.do(t, http.MethodPost, "/api/profile", "u-1", body)
		requireErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	}

	rec := api.do(t, http.MethodGet, "/api/profile/me", "u-1", nil)
	requireStatus(t, rec, http.StatusNotFound)
}
