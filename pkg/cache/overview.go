package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/redis/go-redis/v9"
)

const overviewKeyPrefix = "fern:overview"

// OverviewCache stores the grouped overview report per dataset partition.
type OverviewCache interface {
	Get(ctx context.Context, seeded bool) ([]models.OverviewRow, bool)
	Set(ctx context.Context, seeded bool, rows []models.OverviewRow)
	Invalidate(ctx context.Context)
}

type RedisOverviewCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger ectologger.Logger
}

func NewRedisOverviewCache(rdb redis.Cmdable, ttl time.Duration, logger ectologger.Logger) *RedisOverviewCache {
	return &RedisOverviewCache{rdb: rdb, ttl: ttl, logger: logger}
}

func overviewKey(seeded bool) string {
	return fmt.Sprintf("%s:%t", overviewKeyPrefix, seeded)
}

// Get returns the cached rows. Cache failures are logged and reported as a miss.
func (c *RedisOverviewCache) Get(ctx context.Context, seeded bool) ([]models.OverviewRow, bool) {
	raw, err := c.rdb.Get(ctx, overviewKey(seeded)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.OverviewCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.OverviewCacheLookups.WithLabelValues("error").Inc()
		c.logger.WithContext(ctx).WithError(err).Warn("failed to read overview cache")
		return nil, false
	}

	var rows []models.OverviewRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		metrics.OverviewCacheLookups.WithLabelValues("error").Inc()
		c.logger.WithContext(ctx).WithError(err).Warn("discarding corrupt overview cache entry")
		return nil, false
	}

	metrics.OverviewCacheLookups.WithLabelValues("hit").Inc()
	return rows, true
}

func (c *RedisOverviewCache) Set(ctx context.Context, seeded bool, rows []models.OverviewRow) {
	raw, err := json.Marshal(rows)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("failed to encode overview rows")
		return
	}
	if err := c.rdb.Set(ctx, overviewKey(seeded), raw, c.ttl).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("failed to write overview cache")
	}
}

// Invalidate drops both partitions. Any write can move rows between groups.
func (c *RedisOverviewCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, overviewKey(true), overviewKey(false)).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("failed to invalidate overview cache")
	}
}

// NoopOverviewCache is used when redis is disabled.
type NoopOverviewCache struct{}

func (NoopOverviewCache) Get(context.Context, bool) ([]models.OverviewRow, bool) {
	return nil, false
}

func (NoopOverviewCache) Set(context.Context, bool, []models.OverviewRow) {}

func (NoopOverviewCache) Invalidate(context.Context) {}
