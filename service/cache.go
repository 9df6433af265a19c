// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/redis/go-redis/v9"
)

// ICacheClient defines the contract for a cache client.
// *redis.Client satisfies it; a nil ICacheClient disables caching.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// accountCache keeps per-owner account lists. Each owner has a version
// counter; lists are stored under the version that was current when the read
// began and invalidation bumps the counter, so a list read before a commit
// can never be served after it. Cache errors are logged and otherwise
// ignored; the store stays authoritative.
type accountCache struct {
	client ICacheClient
	ttl    time.Duration
}

func ownerVersionKey(ownerID int64) string {
	return fmt.Sprintf("accounts:owner:%d:version", ownerID)
}

func ownerAccountsKey(ownerID int64, version string) string {
	return fmt.Sprintf("accounts:owner:%d:v%s", ownerID, version)
}

// version returns the owner's current list version. ok is false when the
// cache is unavailable.
func (c *accountCache) version(ctx context.Context, ownerID int64) (string, bool) {
	v, err := c.client.Get(ctx, ownerVersionKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", true
	}
	if err != nil {
		logger.Log.WithError(err).WithField("owner_id", ownerID).Warn("Account cache read failed")
		return "", false
	}
	return v, true
}

// get returns the cached list and the version it was looked up under. The
// version is empty when the cache is unavailable; put ignores such writes.
func (c *accountCache) get(ctx context.Context, ownerID int64) ([]*model.Account, string, bool) {
	if c == nil || c.client == nil {
		return nil, "", false
	}
	version, ok := c.version(ctx, ownerID)
	if !ok {
		return nil, "", false
	}
	raw, err := c.client.Get(ctx, ownerAccountsKey(ownerID, version)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("owner_id", ownerID).Warn("Account cache read failed")
		}
		return nil, version, false
	}
	var accounts []*model.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, version, false
	}
	return accounts, version, true
}

func (c *accountCache) put(ctx context.Context, ownerID int64, version string, accounts []*model.Account) {
	if c == nil || c.client == nil || version == "" {
		return
	}
	payload, err := json.Marshal(accounts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, ownerAccountsKey(ownerID, version), payload, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("owner_id", ownerID).Warn("Account cache write failed")
	}
}

// invalidate moves each owner to a new version. Lists stored under older
// versions are never read again and expire with their TTL.
func (c *accountCache) invalidate(ctx context.Context, ownerIDs ...int64) {
	if c == nil || c.client == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, id := range ownerIDs {
		if err := c.client.Incr(ctx, ownerVersionKey(id)).Err(); err != nil {
			logger.Log.WithError(err).WithField("owner_id", id).Warn("Account cache invalidation failed")
		}
	}
}
