package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/app/directory"
	"github.com/alumni-network/alumni-api/internal/app/donations"
	"github.com/alumni-network/alumni-api/internal/app/events"
	"github.com/alumni-network/alumni-api/internal/app/identity"
	"github.com/alumni-network/alumni-api/internal/app/profiles"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
)

// Server holds the application services behind the /api handlers.
type Server struct {
	Directory *directory.Service
	Profiles  *profiles.Service
	Events    *events.Service
	Donations *donations.Service
	// Identity is nil when tokens come from an external issuer; register and login are then
	// not mounted.
	Identity *identity.Service
	// Idem is optional; without it Idempotency-Key headers are ignored.
	Idem idempotency.Store

	Log *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeAppError(w, r, s.logger(), err)
}

func requireSubject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, apperr.CodeUnauthorized, "missing subject", nil)
		return "", false
	}
	return sub, true
}
