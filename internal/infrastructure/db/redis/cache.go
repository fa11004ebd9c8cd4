package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/api/metrics"
	"github.com/devconnector/profile-api/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

const (
	profileKeyPrefix = "profile:user:"
	allProfilesKey   = "profiles:all"
)

// ProfileCache caches public profile reads in Redis. Any cache failure is
// logged and treated as a miss; the store remains the source of truth.
type ProfileCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client, log zerolog.Logger) *ProfileCache {
	return &ProfileCache{client: client, log: log}
}

func (c *ProfileCache) GetProfile(ctx context.Context, userID string) (*domain.Profile, bool) {
	raw, err := c.client.Get(ctx, profileKeyPrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache read failed")
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache decode failed")
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &p, true
}

func (c *ProfileCache) SetProfile(ctx context.Context, userID string, p *domain.Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache encode failed")
		return
	}
	if err := c.client.Set(ctx, profileKeyPrefix+userID, raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache write failed")
	}
}

func (c *ProfileCache) GetAll(ctx context.Context) ([]*domain.Profile, bool) {
	raw, err := c.client.Get(ctx, allProfilesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("profile list cache read failed")
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var ps []*domain.Profile
	if err := json.Unmarshal(raw, &ps); err != nil {
		c.log.Warn().Err(err).Msg("profile list cache decode failed")
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return ps, true
}

func (c *ProfileCache) SetAll(ctx context.Context, ps []*domain.Profile) {
	raw, err := json.Marshal(ps)
	if err != nil {
		c.log.Warn().Err(err).Msg("profile list cache encode failed")
		return
	}
	if err := c.client.Set(ctx, allProfilesKey, raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("profile list cache write failed")
	}
}

// Invalidate drops both the owner's entry and the list entry; any mutation
// for one owner stales the full listing too.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, profileKeyPrefix+userID, allProfilesKey).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache invalidation failed")
	}
}
