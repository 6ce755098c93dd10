package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	memdirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/directoryrepo"
	memdonationrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/donationrepo"
	memeventrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/eventrepo"
	memidempotency "github.com/alumni-network/alumni-api/internal/adapters/memory/idempotency"
	memprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/memory/profilerepo"
	memuserrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/userrepo"
	"github.com/alumni-network/alumni-api/internal/app/directory"
	"github.com/alumni-network/alumni-api/internal/app/donations"
	"github.com/alumni-network/alumni-api/internal/app/events"
	"github.com/alumni-network/alumni-api/internal/app/identity"
	"github.com/alumni-network/alumni-api/internal/app/profiles"
	"github.com/alumni-network/alumni-api/internal/platform/auth/localjwt"
	"github.com/alumni-network/alumni-api/internal/platform/logging"
)

type testAPI struct {
	handler  http.Handler
	server   *Server
	clk      *memclock.ManualClock
	users    *memuserrepo.Repo
	profiles *memprofilerepo.Repo
	tokens   *localjwt.Authority
	logs     *observer.ObservedLogs
	registry *prometheus.Registry
}

// newTestAPI wires every service over memory adapters. Authenticated routes use the dev
// shim unless configure swaps the middleware.
func newTestAPI(t *testing.T, configure ...func(*Server, *RouterOptions)) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	users := memuserrepo.NewRepo()
	profileRepo := memprofilerepo.NewRepo()
	log, logs := logging.NewObserved(zapcore.DebugLevel)

	tokens, err := localjwt.New("test-secret", "alumni-api", time.Hour, clk)
	if err != nil {
		t.Fatalf("localjwt.New: %v", err)
	}
	idSvc := identity.NewService(users, tokens, clk)
	idSvc.BcryptCost = bcrypt.MinCost

	s := &Server{
		Directory: directory.NewService(memdirectoryrepo.NewRepo(profileRepo, users), log),
		Profiles:  profiles.NewService(profileRepo, users, clk),
		Events:    events.NewService(memeventrepo.NewRepo(), clk),
		Donations: donations.NewService(memdonationrepo.NewRepo(), users, clk),
		Identity:  idSvc,
		Idem:      memidempotency.NewStore(),
		Log:       log,
	}
	reg := prometheus.NewRegistry()
	opts := RouterOptions{
		AuthMiddleware: NewDevAuthMiddleware(""),
		Logger:         log,
		Registry:       reg,
	}
	for _, c := range configure {
		c(s, &opts)
	}

	return &testAPI{
		handler:  NewRouter(s, opts),
		server:   s,
		clk:      clk,
		users:    users,
		profiles: profileRepo,
		tokens:   tokens,
		logs:     logs,
		registry: reg,
	}
}

func (a *testAPI) do(t *testing.T, method, path, subject string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\nbody=%s", err, rec.Body.String())
	}
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status=%d want %d body=%s", rec.Code, want, rec.Body.String())
	}
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) apitypes.ErrorResponse {
	t.Helper()
	requireStatus(t, rec, wantStatus)
	er := decodeBody[apitypes.ErrorResponse](t, rec)
	if er.Error.Code != wantCode {
		t.Fatalf("error.code=%q want %q body=%s", er.Error.Code, wantCode, rec.Body.String())
	}
	return er
}
