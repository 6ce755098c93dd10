package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterOptions struct {
	// AuthMiddleware guards the authenticated routes. When nil they answer 401.
	AuthMiddleware func(http.Handler) http.Handler
	Logger         *zap.Logger
	// Registry receives the HTTP collectors and backs /metrics. When nil, metrics are off.
	Registry *prometheus.Registry
}

// NewRouter constructs the API HTTP router. Every API route lives under /api; /healthz and
// /metrics sit at the root.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	authMW := opts.AuthMiddleware
	if authMW == nil {
		authMW = denyAll
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	if opts.Registry != nil {
		r.Use(NewMetrics(opts.Registry).Middleware)
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile/all", s.ListAlumni)
		r.Get("/profile/search", s.SearchAlumni)
		r.Get("/profile/filter", s.FilterAlumni)
		r.Get("/profile/department/{department}", s.AlumniByDepartment)
		r.Get("/profile/year/{year}", s.AlumniByYear)
		r.Get("/profile/stats", s.AlumniStats)
		r.Get("/events", s.ListEvents)

		if s.Identity != nil {
			r.Post("/auth/register", s.Register)
			r.Post("/auth/login", s.Login)
		}

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Get("/profile/me", s.GetMyProfile)
			r.Post("/profile", s.UpsertMyProfile)
			r.Post("/profile/{id}/contact", s.ContactAlumni)
			r.Post("/events", s.CreateEvent)
			r.Post("/events/{id}/rsvp", s.RSVPEvent)
			r.Post("/donations", s.MakeDonation)
			r.Get("/donations", s.ListDonations)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}
