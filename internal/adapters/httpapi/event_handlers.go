package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/app/events"
	"github.com/alumni-network/alumni-api/internal/domain"
)

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	es, err := s.Events.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]apitypes.Event, 0, len(es))
	for _, e := range es {
		out = append(out, apitypes.EventFromDomain(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body apitypes.CreateEventRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	date, err := parseEventDate(body.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "invalid event", map[string]any{"date": "must be RFC 3339 or YYYY-MM-DD"})
		return
	}

	e, err := s.Events.Create(r.Context(), sub, events.CreateInput{
		Title:       body.Title,
		Description: body.Description,
		Date:        date,
		Location:    body.Location,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, apitypes.EventFromDomain(e))
}

func (s *Server) RSVPEvent(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	id, ok := bindPathParam(w, r, "id")
	if !ok {
		return
	}
	attendees, err := s.Events.RSVP(r.Context(), sub, domain.EventID(id))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]string, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, string(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// parseEventDate returns the zero time for an empty value so the service reports it missing.
func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
