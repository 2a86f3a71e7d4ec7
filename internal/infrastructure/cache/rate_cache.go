package cache

import (
	"context"
	"fmt"
	"loan-interest-engine/internal/config"
	"loan-interest-engine/internal/domain/rate"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// CachedRateSource is a read-through decorator over a rate.Source. Fixings
// never change once published except through an explicit overwrite, so a
// short TTL is enough to keep an overwrite from being served stale.
type CachedRateSource struct {
	next   rate.Source
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedRateSource(next rate.Source, cfg config.RedisConfig, logger *slog.Logger) *CachedRateSource {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	return &CachedRateSource{
		next:   next,
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With("component", "CachedRateSource"),
	}
}

var _ rate.Source = (*CachedRateSource)(nil)

func (c *CachedRateSource) RateOnOrBefore(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	key := cacheKey(date)

	if val, err := c.client.Get(ctx, key).Result(); err == nil {
		if cached, parseErr := decimal.NewFromString(val); parseErr == nil {
			return cached, nil
		}
		c.logger.WarnContext(ctx, "Discarding unparseable cached rate", "key", key, "value", val)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "Redis lookup failed, falling through", "key", key, "error", err)
	}

	result, err := c.next.RateOnOrBefore(ctx, date)
	if err != nil {
		// Missing-rate results are not cached: the fixing may arrive later.
		return decimal.Zero, err
	}

	if setErr := c.client.Set(ctx, key, result.String(), c.ttl).Err(); setErr != nil {
		c.logger.WarnContext(ctx, "Failed to cache rate", "key", key, "error", setErr)
	}
	return result, nil
}

func (c *CachedRateSource) Close() error {
	return c.client.Close()
}

func cacheKey(date time.Time) string {
	return fmt.Sprintf("rate:on-or-before:%s", date.Format(time.DateOnly))
}
