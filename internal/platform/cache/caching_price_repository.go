// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/feature/prices/domain/entity"
	"portfolio_backend/internal/feature/prices/usecase"
)

// CachingPriceRepository decorates a PriceRepository with Redis caching of the
// latest close per ticker. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingPriceRepository decorates a PriceRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
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

// UpsertBatch inserts or updates prices and invalidates the cached latest
// close of each affected ticker.
func (c *CachingPriceRepository) UpsertBatch(ctx context.Context, prices []entity.Price) error {
	// First upsert to the underlying repository (MySQL)
	if err := c.inner.UpsertBatch(ctx, prices); err != nil {
		return err
	}
	// Exit early if Redis is not configured or there are no prices
	if c.rdb == nil || len(prices) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	keys := make([]string, 0, len(prices))
	for _, p := range prices {
		if _, ok := seen[p.Ticker]; ok {
			continue
		}
		seen[p.Ticker] = struct{}{}
		keys = append(keys, c.cacheKey(p.Ticker))
	}
	_ = c.rdb.Del(ctx, keys...).Err() // Best effort: don't fail if cache deletion fails
	return nil
}

// LatestByTicker retrieves the latest close per ticker, checking the cache
// first and falling back to the database for the misses.
func (c *CachingPriceRepository) LatestByTicker(ctx context.Context, tickers []string) (map[string]entity.Price, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.LatestByTicker(ctx, tickers)
	}

	out := make(map[string]entity.Price, len(tickers))
	misses := make([]string, 0, len(tickers))

	// 1) Check cache per ticker
	for _, ticker := range tickers {
		b, err := c.rdb.Get(ctx, c.cacheKey(ticker)).Bytes()
		if err != nil || len(b) == 0 {
			misses = append(misses, ticker)
			continue
		}
		var p entity.Price
		if err := json.Unmarshal(b, &p); err != nil {
			// Delete corrupted cache entry
			_ = c.rdb.Del(ctx, c.cacheKey(ticker)).Err()
			misses = append(misses, ticker)
			continue
		}
		out[ticker] = p
	}
	if len(misses) == 0 {
		return out, nil
	}

	// 2) Fallback to database for the misses
	fromDB, err := c.inner.LatestByTicker(ctx, misses)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	for ticker, p := range fromDB {
		out[ticker] = p
		if b, err := json.Marshal(p); err == nil {
			_ = c.rdb.Set(ctx, c.cacheKey(ticker), b, c.ttl).Err()
		}
	}
	return out, nil
}

// cacheKey generates the cache key holding a ticker's latest close.
func (c *CachingPriceRepository) cacheKey(ticker string) string {
	return fmt.Sprintf("%s:%s:latest", c.namespace, safe(ticker))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
