// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/usecase"
)

// CachingPriceRepository decorates a PriceRepository with Redis caching.
// Reads are cached per query; every upsert invalidates the symbol's cached
// queries so readers never see stale prices past the invalidation.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PriceRepository = (*CachingPriceRepository)(nil)

// NewCachingPriceRepository decorates a PriceRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "prices".
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceRepository, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertOne writes through to the underlying repository and invalidates the
// symbol's cached queries.
func (c *CachingPriceRepository) UpsertOne(ctx context.Context, point entity.PricePoint) error {
	if err := c.inner.UpsertOne(ctx, point); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: a failed invalidation must not fail the write.
	_ = c.deleteByPattern(ctx, c.symbolPrefix(point.Symbol)+"*")
	return nil
}

// FindBySymbol retrieves price points, checking cache first then falling
// back to the database.
func (c *CachingPriceRepository) FindBySymbol(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error) {
	if c.rdb == nil {
		return c.inner.FindBySymbol(ctx, symbol, interval, from, to, limit)
	}

	key := c.historyKey(symbol, interval, from, to, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindBySymbol(ctx, symbol, interval, from, to, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// LatestBySymbol retrieves the newest point, cache first.
func (c *CachingPriceRepository) LatestBySymbol(ctx context.Context, symbol, interval string) (*entity.PricePoint, error) {
	if c.rdb == nil {
		return c.inner.LatestBySymbol(ctx, symbol, interval)
	}

	key := fmt.Sprintf("%slatest:%s", c.symbolPrefix(symbol), safe(interval))

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.LatestBySymbol(ctx, symbol, interval)
	if err != nil || out == nil {
		return out, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// historyKey generates a cache key for one history query.
func (c *CachingPriceRepository) historyKey(symbol, interval string, from, to *time.Time, limit int) string {
	return fmt.Sprintf("%shistory:%s:%s:%s:%d",
		c.symbolPrefix(symbol),
		safe(interval),
		stamp(from),
		stamp(to),
		limit,
	)
}

// symbolPrefix is the invalidation prefix covering all of a symbol's keys.
func (c *CachingPriceRepository) symbolPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

func stamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("20060102150405")
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
