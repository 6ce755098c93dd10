// Package config loads service configuration from defaults, an optional YAML file and
// ALUMNI_-prefixed environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "ALUMNI_"
	// EnvConfigFile names the YAML file to load when Load is called without a path.
	EnvConfigFile = "ALUMNI_CONFIG_FILE"

	maxConfigFileSize = 1024 * 1024
)

const (
	AuthModeLocal = "local"
	AuthModeJWKS  = "jwks"
	AuthModeDev   = "dev"

	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
)

type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Auth        AuthConfig        `koanf:"auth"`
	Storage     StorageConfig     `koanf:"storage"`
	Idempotency IdempotencyConfig `koanf:"idempotency"`
	Log         LogConfig         `koanf:"log"`
}

type ServerConfig struct {
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// AuthConfig selects how bearer tokens are issued and verified.
//
//   - local: HS256 tokens issued by /api/auth/register and /api/auth/login.
//   - jwks: RS256 tokens from an external issuer, verified against its JWKS.
//   - dev: no verification; the subject comes from X-Debug-Subject.
type AuthConfig struct {
	Mode string `koanf:"mode"`

	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
	TokenIssuer string        `koanf:"token_issuer"`

	DevSubject string `koanf:"dev_subject"`

	JWTIssuer                 string        `koanf:"jwt_issuer"`
	JWTAudience               string        `koanf:"jwt_audience"`
	JWTJWKSURL                string        `koanf:"jwt_jwks_url"`
	JWTClockSkew              time.Duration `koanf:"jwt_clock_skew"`
	JWTJWKSRefreshInterval    time.Duration `koanf:"jwt_jwks_refresh_interval"`
	JWTJWKSMinRefreshInterval time.Duration `koanf:"jwt_jwks_min_refresh_interval"`
	JWTHTTPTimeout            time.Duration `koanf:"jwt_http_timeout"`
}

type StorageConfig struct {
	Backend       string `koanf:"backend"`
	DatabaseURL   string `koanf:"database_url"`
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`
}

type IdempotencyConfig struct {
	Backend  string        `koanf:"backend"`
	RedisURL string        `koanf:"redis_url"`
	TTL      time.Duration `koanf:"ttl"`
	// PurgeSchedule is a cron spec for removing expired records from stores without native expiry.
	PurgeSchedule string `koanf:"purge_schedule"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig configures JWT verification against a JWKS endpoint.
type JWTConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string

	ClockSkew              time.Duration
	JWKSRefreshInterval    time.Duration
	JWKSMinRefreshInterval time.Duration

	HTTPTimeout time.Duration
}

// JWT returns the verifier configuration used in jwks mode.
func (a AuthConfig) JWT() JWTConfig {
	return JWTConfig{
		Issuer:                 a.JWTIssuer,
		Audience:               a.JWTAudience,
		JWKSURL:                a.JWTJWKSURL,
		ClockSkew:              a.JWTClockSkew,
		JWKSRefreshInterval:    a.JWTJWKSRefreshInterval,
		JWKSMinRefreshInterval: a.JWTJWKSMinRefreshInterval,
		HTTPTimeout:            a.JWTHTTPTimeout,
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Auth: AuthConfig{
			Mode:        AuthModeLocal,
			TokenTTL:    time.Hour,
			TokenIssuer: "alumni-api",
			DevSubject:  "dev|local",

			JWTClockSkew: 30 * time.Second,
			// Refresh periodically to pick up key rotation even if an old key is still cached.
			JWTJWKSRefreshInterval: 5 * time.Minute,
			// Bound refresh frequency when a token presents an unknown kid.
			JWTJWKSMinRefreshInterval: 10 * time.Second,
			JWTHTTPTimeout:            5 * time.Second,
		},
		Storage: StorageConfig{
			Backend:       BackendMemory,
			MongoDatabase: "alumni",
		},
		Idempotency: IdempotencyConfig{
			Backend:       BackendMemory,
			TTL:           24 * time.Hour,
			PurgeSchedule: "@every 1h",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty, ALUMNI_CONFIG_FILE is
// consulted, and when that is empty too no file is read.
//
// Environment variables map SECTION_FIELD to section.field:
//
//	ALUMNI_STORAGE_BACKEND    -> storage.backend
//	ALUMNI_AUTH_JWT_JWKS_URL  -> auth.jwt_jwks_url
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps ALUMNI_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate fails fast on values the chosen modes cannot run without.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port))
	}

	switch c.Auth.Mode {
	case AuthModeLocal:
		if c.Auth.TokenSecret == "" {
			errs = append(errs, errors.New("auth.token_secret is required in local mode"))
		}
		if c.Auth.TokenTTL <= 0 {
			errs = append(errs, errors.New("auth.token_ttl must be positive"))
		}
	case AuthModeJWKS:
		if c.Auth.JWTIssuer == "" || c.Auth.JWTAudience == "" || c.Auth.JWTJWKSURL == "" {
			errs = append(errs, errors.New("auth.jwt_issuer, auth.jwt_audience and auth.jwt_jwks_url are required in jwks mode"))
		}
	case AuthModeDev:
		if c.Auth.DevSubject == "" {
			errs = append(errs, errors.New("auth.dev_subject is required in dev mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.mode must be local, jwks or dev, got %q", c.Auth.Mode))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for the postgres backend"))
		}
	case BackendMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDatabase == "" {
			errs = append(errs, errors.New("storage.mongo_uri and storage.mongo_database are required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be memory, postgres or mongo, got %q", c.Storage.Backend))
	}

	switch c.Idempotency.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.Backend != BackendPostgres {
			errs = append(errs, errors.New("idempotency.backend postgres requires storage.backend postgres"))
		}
	case BackendRedis:
		if c.Idempotency.RedisURL == "" {
			errs = append(errs, errors.New("idempotency.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("idempotency.backend must be memory, postgres or redis, got %q", c.Idempotency.Backend))
	}
	if c.Idempotency.TTL <= 0 {
		errs = append(errs, errors.New("idempotency.ttl must be positive"))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
