// Package analyticscache caches the flattened analytics response in a
// key-value store. Cache failures degrade to a miss: the analytics call
// never fails because the cache is unavailable.
package analyticscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/db/redis"
	"github.com/boiar/job-search-project/internal/domain/search/aggs"
)

const cacheKey = "jobsearch:analytics"

// store is the consumer interface for the analytics cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores flattened analytics with a TTL.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an analytics cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); it may
// be nil in tests.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Get returns the cached analytics, or false on miss or cache error.
func (c *Cache) Get(ctx context.Context) (map[string][]aggs.Entry, bool) {
	data, err := c.store.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, redis.ErrKeyNotFound) {
			c.logger.Warn("Failed to read analytics cache", zap.Error(err))
		}
		c.incCache("miss")
		return nil, false
	}

	var out map[string][]aggs.Entry
	if err := json.Unmarshal(data, &out); err != nil {
		c.logger.Warn("Failed to parse cached analytics", zap.Error(err))
		c.incCache("miss")
		return nil, false
	}

	c.incCache("hit")
	return out, true
}

// Put stores the analytics. Failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, analytics map[string][]aggs.Entry) {
	data, err := json.Marshal(analytics)
	if err != nil {
		c.logger.Warn("Failed to encode analytics for cache", zap.Error(err))
		return
	}
	if err := c.store.SetEx(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write analytics cache", zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
