package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vedantpareek96/il-management/internal/application/query"
	"github.com/vedantpareek96/il-management/pkg/logger"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// PrefixLeaderboard namespaces leaderboard cache keys.
const PrefixLeaderboard = "leaderboard:"

// LeaderboardHandler is the query handler the cache decorates.
type LeaderboardHandler interface {
	Handle(ctx context.Context, q query.ComputeLeaderboardQuery) (*query.ComputeLeaderboardResult, error)
}

// CachedLeaderboardHandler caches leaderboard results in Redis. Cache
// failures are logged and never surface to the caller: a broken cache
// degrades to recomputation.
type CachedLeaderboardHandler struct {
	inner  LeaderboardHandler
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCachedLeaderboardHandler wraps a leaderboard handler with a Redis
// cache.
func NewCachedLeaderboardHandler(inner LeaderboardHandler, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CachedLeaderboardHandler{inner: inner, client: client, ttl: ttl, log: log}
}

// Handle returns a cached result when one exists for the exact query
// parameters, otherwise computes and stores one.
func (h *CachedLeaderboardHandler) Handle(ctx context.Context, q query.ComputeLeaderboardQuery) (*query.ComputeLeaderboardResult, error) {
	key := h.key(q)

	if cached, err := h.get(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		h.log.Warn("leaderboard cache read failed", logger.Err(err))
	}

	result, err := h.inner.Handle(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := h.set(ctx, key, result); err != nil {
		h.log.Warn("leaderboard cache write failed", logger.Err(err))
	}

	return result, nil
}

func (h *CachedLeaderboardHandler) get(ctx context.Context, key string) (*query.ComputeLeaderboardResult, error) {
	raw, err := h.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var result query.ComputeLeaderboardResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (h *CachedLeaderboardHandler) set(ctx context.Context, key string, result *query.ComputeLeaderboardResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return h.client.Set(ctx, key, raw, h.ttl).Err()
}

// key builds the cache key from every parameter that shapes the result.
func (h *CachedLeaderboardHandler) key(q query.ComputeLeaderboardQuery) string {
	from, to := "*", "*"
	if q.From != nil {
		from = timeutil.FormatDate(*q.From)
	}
	if q.To != nil {
		to = timeutil.FormatDate(*q.To)
	}
	region := q.Region
	if region == "" {
		region = "*"
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%d", PrefixLeaderboard, region, q.Metric, from, to, q.Limit)
}
