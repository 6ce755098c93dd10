package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi"
	"github.com/alumni-network/alumni-api/internal/app/directory"
	"github.com/alumni-network/alumni-api/internal/app/donations"
	"github.com/alumni-network/alumni-api/internal/app/events"
	"github.com/alumni-network/alumni-api/internal/app/identity"
	"github.com/alumni-network/alumni-api/internal/app/profiles"
	"github.com/alumni-network/alumni-api/internal/platform/auth/jwtverifier"
	"github.com/alumni-network/alumni-api/internal/platform/auth/localjwt"
	platformclock "github.com/alumni-network/alumni-api/internal/platform/clock"
	"github.com/alumni-network/alumni-api/internal/platform/config"
	"github.com/alumni-network/alumni-api/internal/platform/logging"
	"github.com/alumni-network/alumni-api/internal/platform/scheduler"
	"github.com/alumni-network/alumni-api/internal/platform/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	stores, err := storage.Open(ctx, cfg, storage.Options{Migrate: true}, log)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close(context.Background()) }()

	api := &httpapi.Server{
		Directory: directory.NewService(stores.Directory, log.Named("directory")),
		Profiles:  profiles.NewService(stores.Profiles, stores.Users, clk),
		Events:    events.NewService(stores.Events, clk),
		Donations: donations.NewService(stores.Donations, stores.Users, clk),
		Idem:      stores.Idem,
		Log:       log,
	}

	// Auth configuration:
	// - local: tokens issued by /api/auth/register and /api/auth/login
	// - jwks: tokens from an external issuer, verified against its JWKS
	// - dev: no verification, subject from X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	switch cfg.Auth.Mode {
	case config.AuthModeLocal:
		tokens, err := localjwt.New(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL, clk)
		if err != nil {
			return err
		}
		api.Identity = identity.NewService(stores.Users, tokens, clk)
		authMW = httpapi.NewAuthMiddleware(tokens)
	case config.AuthModeJWKS:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(cfg.Auth.JWT()))
	case config.AuthModeDev:
		log.Warn("dev auth enabled; bearer tokens are not verified")
		authMW = httpapi.NewDevAuthMiddleware(cfg.Auth.DevSubject)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		Logger:         log.Named("http"),
		Registry:       reg,
	})

	sched := scheduler.New(ctx, log.Named("scheduler"))
	if stores.Purger != nil && cfg.Idempotency.PurgeSchedule != "" {
		job := scheduler.PurgeIdempotency(stores.Purger, clk, cfg.Idempotency.TTL, log)
		if err := sched.Add("purge-idempotency", cfg.Idempotency.PurgeSchedule, job); err != nil {
			return err
		}
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("auth_mode", cfg.Auth.Mode),
			zap.String("storage", cfg.Storage.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("scheduler stop", zap.Error(err))
	}
	return srv.Shutdown(shutdownCtx)
}
