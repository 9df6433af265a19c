package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRequestInProgress = errors.New("a request with this idempotency key is still in progress")

const pendingMarker = "__pending__"

// IdempotencyStore remembers the response of a completed request under a
// client-chosen key so a retried request replays it instead of running again.
type IdempotencyStore struct {
	cache ICacheClient
	ttl   time.Duration
}

func NewIdempotencyStore(cache ICacheClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{cache: cache, ttl: ttl}
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Reserve claims key for scope. It returns (nil, nil) when the caller should
// proceed, the stored response when the key already completed, and
// ErrRequestInProgress while another request holds the key.
func (s *IdempotencyStore) Reserve(ctx context.Context, scope, key string) ([]byte, error) {
	k := idempotencyKey(scope, key)
	ok, err := s.cache.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, storageErr("reserve idempotency key", err)
	}
	if ok {
		return nil, nil
	}

	stored, err := s.cache.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; treat as busy and let the client retry.
		return nil, ErrRequestInProgress
	}
	if err != nil {
		return nil, storageErr("read idempotency key", err)
	}
	if stored == pendingMarker {
		return nil, ErrRequestInProgress
	}
	return []byte(stored), nil
}

// Complete stores the response for a reserved key.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, response []byte) error {
	if err := s.cache.Set(context.WithoutCancel(ctx), idempotencyKey(scope, key), response, s.ttl).Err(); err != nil {
		return storageErr("store idempotent response", err)
	}
	return nil
}

// Release forgets a reserved key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.cache.Del(context.WithoutCancel(ctx), idempotencyKey(scope, key)).Err(); err != nil {
		return storageErr("release idempotency key", err)
	}
	return nil
}
