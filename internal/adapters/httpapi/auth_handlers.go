package httpapi

import (
	"net/http"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/app/identity"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body apitypes.RegisterRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.Identity.Register(r.Context(), body.Name, string(body.Email), body.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse(sess))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body apitypes.LoginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.Identity.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse(sess))
}

func authResponse(s identity.Session) apitypes.AuthResponse {
	return apitypes.AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User: apitypes.UserSummary{
			ID:    string(s.User.ID),
			Name:  s.User.Name,
			Email: s.User.Email,
		},
	}
}
