package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/domain"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

const summaryKey = "loan-manager:portfolio-summary"

// SummaryCache keeps the portfolio summary in redis for a fixed TTL.
type SummaryCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSummaryCache(client redis.Cmdable, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// NewClient connects to the configured redis. It returns nil, nil when
// caching is turned off.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr() == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, customError.WrapCacheError(err)
	}
	return client, nil
}

func (c *SummaryCache) Get(ctx context.Context) (*domain.PortfolioSummary, error) {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}

	var summary domain.PortfolioSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, customError.WrapCacheError(err)
	}
	return &summary, nil
}

func (c *SummaryCache) Set(ctx context.Context, summary *domain.PortfolioSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return customError.WrapCacheError(err)
	}
	if err := c.client.Set(ctx, summaryKey, raw, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}
