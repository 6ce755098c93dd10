package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	"github.com/alumni-network/alumni-api/internal/platform/auth/jwkstest"
	"github.com/alumni-network/alumni-api/internal/platform/auth/jwtverifier"
	"github.com/alumni-network/alumni-api/internal/platform/config"
)

func newJWKSAuthAPI(t *testing.T) (*testAPI, func(now time.Time) string) {
	t.Helper()

	jwksSrv, setKeys := jwkstest.NewRotatingJWKSServer()
	t.Cleanup(jwksSrv.Close)

	kp, err := jwkstest.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwkstest.Keypair{kp})

	cfg := config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksSrv.URL,
		JWKSRefreshInterval:    10 * time.Minute,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}
	v := jwtverifier.NewWithOptions(cfg, nil, memclock.NewManualClock(time.Unix(1700000000, 0)))

	api := newTestAPI(t, func(s *Server, o *RouterOptions) {
		s.Identity = nil
		o.AuthMiddleware = NewAuthMiddleware(v)
	})
	mint := func(now time.Time) string {
		tok, err := jwkstest.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "ext|user-123", now, 5*time.Minute, nil)
		if err != nil {
			t.Fatalf("MintRS256JWT: %v", err)
		}
		return tok
	}
	return api, mint
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	api, _ := newJWKSAuthAPI(t)
	rec := api.do(t, http.MethodGet, "/api/profile/me", "", nil)

	er := requireErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	if rid, err := er.Error.RequestId.Get(); err != nil || rid == "" {
		t.Fatalf("expected requestId to be a non-empty string")
	}
}

func TestAuthMiddleware_MalformedOrInvalid_401(t *testing.T) {
	t.Parallel()

	api, mint := newJWKSAuthAPI(t)
	for _, authz := range []string{"Basic abc", "Bearer ", "Bearer not-a-jwt", "Bearer " + mint(time.Unix(1600000000, 0))} {
		rec := api.do(t, http.MethodGet, "/api/profile/me", "", nil, "Authorization", authz)
		requireErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	}
}

func TestAuthMiddleware_ValidToken_SetsSubject(t *testing.T) {
	t.Parallel()

	api, mint := newJWKSAuthAPI(t)
	tok := mint(time.Unix(1700000000, 0))

	rec := api.do(t, http.MethodPost, "/api/profile", "", map[string]any{"major": "Physics"}, "Authorization", "Bearer "+tok)
	requireStatus(t, rec, http.StatusOK)

	rec = api.do(t, http.MethodGet, "/api/profile/me", "", nil, "Authorization", "Bearer "+tok)
	requireStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]any](t, rec)["user"]; got != "ext|user-123" {
		t.Fatalf("user=%v want ext|user-123", got)
	}
}

func TestAuthMiddleware_PublicRoutesNeedNoToken(t *testing.T) {
	t.Parallel()

	api, _ := newJWKSAuthAPI(t)
	for _, path := range []string{"/api/profile/all", "/api/profile/stats", "/api/events", "/healthz"} {
		rec := api.do(t, http.MethodGet, path, "", nil)
		requireStatus(t, rec, http.StatusOK)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/donations", "", nil)
	requireErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")

	rec = api.do(t, http.MethodGet, "/api/donations", "dev|alice", nil)
	requireStatus(t, rec, http.StatusOK)

	withDefault := newTestAPI(t, func(_ *Server, o *RouterOptions) {
		o.AuthMiddleware = NewDevAuthMiddleware("dev|default")
	})
	rec = withDefault.do(t, http.MethodGet, "/api/donations", "", nil)
	requireStatus(t, rec, http.StatusOK)
}

func TestRouter_NoAuthMiddlewareDeniesProtectedRoutes(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, func(_ *Server, o *RouterOptions) {
		o.AuthMiddleware = nil
	})
	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set("X-Debug-Subject", "dev|alice")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	requireErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}
