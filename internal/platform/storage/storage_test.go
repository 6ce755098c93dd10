package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alumni-network/alumni-api/internal/platform/config"
)

func TestOpen_Memory(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	s, err := Open(context.Background(), cfg, Options{Migrate: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Profiles)
	assert.NotNil(t, s.Directory)
	assert.NotNil(t, s.Events)
	assert.NotNil(t, s.Donations)
	assert.NotNil(t, s.Idem)
	assert.NotNil(t, s.Purger)
	assert.Nil(t, s.Pool)
}

func TestOpen_PostgresIdempotencyNeedsPool(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Idempotency.Backend = config.BackendPostgres
	_, err := Open(context.Background(), cfg, Options{}, zap.NewNop())
	require.Error(t, err)
}

func TestOpen_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Storage.Backend = "sqlite"
	_, err := Open(context.Background(), cfg, Options{}, zap.NewNop())
	require.ErrorContains(t, err, "unknown storage backend")
}

func TestTokenIssuer(t *testing.T) {
	t.Parallel()

	a := config.Default().Auth
	assert.Equal(t, "alumni-api", tokenIssuer(a))

	a.Mode = config.AuthModeJWKS
	a.JWTIssuer = "https://issuer.example"
	assert.Equal(t, "https://issuer.example", tokenIssuer(a))

	a.Mode = config.AuthModeDev
	assert.Equal(t, "dev", tokenIssuer(a))
}
