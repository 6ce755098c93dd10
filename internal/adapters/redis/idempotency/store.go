package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
)

const keyPrefix = "alumni:idem:"

const (
	fieldStatus      = "status"
	fieldContentType = "content_type"
	fieldBody        = "body"
	fieldCreatedAt   = "created_at"
)

// Store is a Redis-backed implementation of idempotency.Store. Records expire after ttl,
// so it does not implement idempotency.Purger.
type Store struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewStore(client goredis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	vals, err := s.client.HGetAll(ctx, redisKey(fp)).Result()
	if err != nil {
		return idempotency.Record{}, false, fmt.Errorf("get idempotency record: %w", err)
	}
	if len(vals) == 0 {
		return idempotency.Record{}, false, nil
	}

	status, err := strconv.Atoi(vals[fieldStatus])
	if err != nil {
		return idempotency.Record{}, false, fmt.Errorf("decode idempotency status: %w", err)
	}
	createdNanos, err := strconv.ParseInt(vals[fieldCreatedAt], 10, 64)
	if err != nil {
		return idempotency.Record{}, false, fmt.Errorf("decode idempotency created_at: %w", err)
	}
	return idempotency.Record{
		StatusCode:  status,
		ContentType: vals[fieldContentType],
		Body:        []byte(vals[fieldBody]),
		CreatedAt:   time.Unix(0, createdNanos).UTC(),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.ttl <= 0 {
		return errors.New("redis idempotency store requires a positive ttl")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	key := redisKey(fp)
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key,
			fieldStatus, strconv.Itoa(rec.StatusCode),
			fieldContentType, rec.ContentType,
			fieldBody, rec.Body,
			fieldCreatedAt, strconv.FormatInt(rec.CreatedAt.UnixNano(), 10),
		)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put idempotency record: %w", err)
	}
	return nil
}

// redisKey hashes the fingerprint so caller-supplied keys cannot collide across fields
// or inject separators.
func redisKey(fp idempotency.Fingerprint) string {
	h := sha256.New()
	for _, part := range []string{string(fp.Key), string(fp.Subject), fp.Method, fp.Route, fp.BodyHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
