package idempotency

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/alumni-network/alumni-api/internal/adapters/contracttest"
	redisadapter "github.com/alumni-network/alumni-api/internal/adapters/redis"
	idempotencyport "github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
)

func openClient(t *testing.T) *goredis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := redisadapter.NewClient(context.Background(), url)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestContract_RedisIdempotencyStore(t *testing.T) {
	client := openClient(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(client, time.Hour), nil
	})
}

func TestStore_PutSetsTTL(t *testing.T) {
	client := openClient(t)
	ctx := context.Background()
	store := NewStore(client, time.Minute)

	fp := idempotencyport.Fingerprint{Key: idempotencyport.Key(uuid.NewString()), Subject: "sub", Method: "POST", Route: "/api/donations"}
	if err := store.Put(ctx, fp, idempotencyport.Record{StatusCode: 201, Body: []byte("{}")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ttl, err := client.TTL(ctx, redisKey(fp)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl=%v want (0, 1m]", ttl)
	}

	got, ok, err := store.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get ok=%v err=%v", ok, err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt defaulted")
	}
}

func TestRedisKey_DistinguishesFields(t *testing.T) {
	t.Parallel()

	a := idempotencyport.Fingerprint{Key: "ab", Subject: "c"}
	b := idempotencyport.Fingerprint{Key: "a", Subject: "bc"}
	if redisKey(a) == redisKey(b) {
		t.Fatalf("expected distinct keys for shifted field boundaries")
	}
	if redisKey(a) != redisKey(a) {
		t.Fatalf("expected stable key")
	}
}
