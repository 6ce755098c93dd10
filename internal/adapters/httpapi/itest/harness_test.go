package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi"
	memclock "github.com/alumni-network/alumni-api/internal/adapters/memory/clock"
	memdirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/directoryrepo"
	memdonationrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/donationrepo"
	memeventrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/eventrepo"
	memidempotency "github.com/alumni-network/alumni-api/internal/adapters/memory/idempotency"
	memprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/memory/profilerepo"
	memuserrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/userrepo"
	mongodirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/directoryrepo"
	mongodonationrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/donationrepo"
	mongoeventrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/eventrepo"
	mongoprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/profilerepo"
	mongo_testutil "github.com/alumni-network/alumni-api/internal/adapters/mongodb/testutil"
	mongouserrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/userrepo"
	pgdirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/directoryrepo"
	pgdonationrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/donationrepo"
	pgeventrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/eventrepo"
	pgidempotency "github.com/alumni-network/alumni-api/internal/adapters/postgres/idempotency"
	pgprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/profilerepo"
	postgres_testutil "github.com/alumni-network/alumni-api/internal/adapters/postgres/testutil"
	pguserrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/userrepo"
	"github.com/alumni-network/alumni-api/internal/app/directory"
	"github.com/alumni-network/alumni-api/internal/app/donations"
	"github.com/alumni-network/alumni-api/internal/app/events"
	"github.com/alumni-network/alumni-api/internal/app/identity"
	"github.com/alumni-network/alumni-api/internal/app/profiles"
	"github.com/alumni-network/alumni-api/internal/platform/auth/localjwt"
	directoryrepoport "github.com/alumni-network/alumni-api/internal/ports/out/directoryrepo"
	donationrepoport "github.com/alumni-network/alumni-api/internal/ports/out/donationrepo"
	eventrepoport "github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
	idempotencyport "github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
	profilerepoport "github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
	userrepoport "github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendMongo    backend = "mongo"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "mongo":
		return []backend{backendMongo}
	case "all":
		return []backend{backendMemory, backendPostgres, backendMongo}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|mongo|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		users     userrepoport.Repository
		profs     profilerepoport.Repository
		dir       directoryrepoport.Repository
		eventRepo eventrepoport.Repository
		donRepo   donationrepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		users = pguserrepo.NewRepo(pool)
		profs = pgprofilerepo.NewRepo(pool)
		dir = pgdirectoryrepo.NewRepo(pool)
		eventRepo = pgeventrepo.NewRepo(pool)
		donRepo = pgdonationrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, "itest-issuer")
	case backendMongo:
		db := mongo_testutil.OpenDatabase(t)
		users = mongouserrepo.NewRepo(db)
		profs = mongoprofilerepo.NewRepo(db)
		dir = mongodirectoryrepo.NewRepo(db)
		eventRepo = mongoeventrepo.NewRepo(db)
		donRepo = mongodonationrepo.NewRepo(db)
		idemStore = memidempotency.NewStore()
	case backendMemory:
		users = memuserrepo.NewRepo()
		profs = memprofilerepo.NewRepo()
		dir = memdirectoryrepo.NewRepo(profs, users)
		eventRepo = memeventrepo.NewRepo()
		donRepo = memdonationrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	tokens, err := localjwt.New("itest-secret", "itest-issuer", time.Hour, clk)
	if err != nil {
		t.Fatalf("localjwt.New: %v", err)
	}
	idSvc := identity.NewService(users, tokens, clk)
	idSvc.BcryptCost = bcrypt.MinCost

	api := &httpapi.Server{
		Directory: directory.NewService(dir, zap.NewNop()),
		Profiles:  profiles.NewService(profs, users, clk),
		Events:    events.NewService(eventRepo, clk),
		Donations: donations.NewService(donRepo, users, clk),
		Identity:  idSvc,
		Idem:      idemStore,
	}

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// An empty default subject means requests MUST provide X-Debug-Subject.
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: httpapi.NewDevAuthMiddleware("")})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.baseURL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}
