package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/domain"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}

// Runs against a live redis when TEST_REDIS_ADDR is set.
func TestSummaryCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	c := NewSummaryCache(client, time.Minute)
	require.NoError(t, c.Invalidate(ctx))

	missing, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	summary := &domain.PortfolioSummary{
		Clients:              2,
		LoansByStatus:        map[string]int{domain.LoanStatusActive: 3},
		InstallmentsByStatus: map[string]int{domain.InstallmentStatusPending: 9},
		InvoicesByStatus:     map[string]int{},
		OutstandingAmount:    decimal.RequireFromString("4500.50"),
		GeneratedAt:          time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, summary))

	cached, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 2, cached.Clients)
	assert.True(t, cached.OutstandingAmount.Equal(summary.OutstandingAmount))

	ttl, err := client.TTL(ctx, summaryKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx))
	cleared, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cleared)
}
