// Package storage opens the configured repositories and idempotency store.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memdirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/directoryrepo"
	memdonationrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/donationrepo"
	memeventrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/eventrepo"
	memidempotency "github.com/alumni-network/alumni-api/internal/adapters/memory/idempotency"
	memprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/memory/profilerepo"
	memuserrepo "github.com/alumni-network/alumni-api/internal/adapters/memory/userrepo"
	"github.com/alumni-network/alumni-api/internal/adapters/mongodb"
	mongodirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/directoryrepo"
	mongodonationrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/donationrepo"
	mongoeventrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/eventrepo"
	mongoprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/profilerepo"
	mongouserrepo "github.com/alumni-network/alumni-api/internal/adapters/mongodb/userrepo"
	postgres "github.com/alumni-network/alumni-api/internal/adapters/postgres"
	pgdirectoryrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/directoryrepo"
	pgdonationrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/donationrepo"
	pgeventrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/eventrepo"
	pgidempotency "github.com/alumni-network/alumni-api/internal/adapters/postgres/idempotency"
	pgprofilerepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/profilerepo"
	pguserrepo "github.com/alumni-network/alumni-api/internal/adapters/postgres/userrepo"
	"github.com/alumni-network/alumni-api/internal/adapters/redis"
	redisidempotency "github.com/alumni-network/alumni-api/internal/adapters/redis/idempotency"
	"github.com/alumni-network/alumni-api/internal/platform/config"
	"github.com/alumni-network/alumni-api/internal/ports/out/directoryrepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/donationrepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
	"github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

// Stores bundles the repositories for one backend.
type Stores struct {
	Users     userrepo.Repository
	Profiles  profilerepo.Repository
	Directory directoryrepo.Repository
	Events    eventrepo.Repository
	Donations donationrepo.Repository

	Idem idempotency.Store
	// Purger is nil when the idempotency store expires records on its own.
	Purger idempotency.Purger

	// Pool is set for the postgres backend.
	Pool *pgxpool.Pool

	closers []func(context.Context) error
}

// Close releases every connection opened by Open, newest first.
func (s *Stores) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Options control side effects of Open.
type Options struct {
	// Migrate applies postgres migrations and mongo indexes after connecting.
	Migrate bool
}

// Open connects the storage and idempotency backends named in cfg.
func Open(ctx context.Context, cfg config.Config, opts Options, log *zap.Logger) (*Stores, error) {
	s := &Stores{}
	var err error
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		err = s.openPostgres(ctx, cfg.Storage.DatabaseURL, opts, log)
	case config.BackendMongo:
		err = s.openMongo(ctx, cfg.Storage, opts, log)
	case config.BackendMemory:
		s.openMemory()
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	if err := s.openIdempotency(ctx, cfg); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	log.Info("storage ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("idempotency_backend", cfg.Idempotency.Backend),
	)
	return s, nil
}

func (s *Stores) openMemory() {
	users := memuserrepo.NewRepo()
	profiles := memprofilerepo.NewRepo()
	s.Users = users
	s.Profiles = profiles
	s.Directory = memdirectoryrepo.NewRepo(profiles, users)
	s.Events = memeventrepo.NewRepo()
	s.Donations = memdonationrepo.NewRepo()
}

func (s *Stores) openPostgres(ctx context.Context, dsn string, opts Options, log *zap.Logger) error {
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	s.Pool = pool
	s.closers = append(s.closers, func(context.Context) error {
		pool.Close()
		return nil
	})

	if opts.Migrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
		if len(applied) > 0 {
			log.Info("postgres migrations applied", zap.Strings("versions", applied))
		}
	}

	s.Users = pguserrepo.NewRepo(pool)
	s.Profiles = pgprofilerepo.NewRepo(pool)
	s.Directory = pgdirectoryrepo.NewRepo(pool)
	s.Events = pgeventrepo.NewRepo(pool)
	s.Donations = pgdonationrepo.NewRepo(pool)
	return nil
}

func (s *Stores) openMongo(ctx context.Context, cfg config.StorageConfig, opts Options, log *zap.Logger) error {
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	s.closers = append(s.closers, client.Disconnect)

	db := client.Database(cfg.MongoDatabase)
	if opts.Migrate {
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info("mongo indexes ensured", zap.String("database", cfg.MongoDatabase))
	}
	s.useMongo(db)
	return nil
}

func (s *Stores) useMongo(db *mongo.Database) {
	s.Users = mongouserrepo.NewRepo(db)
	s.Profiles = mongoprofilerepo.NewRepo(db)
	s.Directory = mongodirectoryrepo.NewRepo(db)
	s.Events = mongoeventrepo.NewRepo(db)
	s.Donations = mongodonationrepo.NewRepo(db)
}

func (s *Stores) openIdempotency(ctx context.Context, cfg config.Config) error {
	switch cfg.Idempotency.Backend {
	case config.BackendMemory:
		st := memidempotency.NewStore()
		s.Idem, s.Purger = st, st
	case config.BackendPostgres:
		if s.Pool == nil {
			return fmt.Errorf("idempotency backend postgres needs the postgres storage backend")
		}
		st := pgidempotency.NewStore(s.Pool, tokenIssuer(cfg.Auth))
		s.Idem, s.Purger = st, st
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.Idempotency.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		s.Idem = redisidempotency.NewStore(client, cfg.Idempotency.TTL)
	default:
		return fmt.Errorf("unknown idempotency backend %q", cfg.Idempotency.Backend)
	}
	return nil
}

// tokenIssuer scopes stored idempotency records to whoever minted the subject.
func tokenIssuer(a config.AuthConfig) string {
	switch a.Mode {
	case config.AuthModeJWKS:
		return a.JWTIssuer
	case config.AuthModeDev:
		return "dev"
	default:
		return a.TokenIssuer
	}
}
