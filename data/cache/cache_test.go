package cache

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quoteCache interface {
	SetQuotes(ctx context.Context, quotes []model.Quote) error
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	GetFXRate(ctx context.Context, pair string) (decimal.Decimal, error)
	SetFXRate(ctx context.Context, pair string, rate decimal.Decimal) error
}

func testConfig() *config.Config {
	return &config.Config{Cache: config.Cache{QuotesExpiration: 15 * time.Minute, FXExpiration: time.Hour}}
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, testConfig()), mr
}

func backends(t *testing.T) map[string]quoteCache {
	rc, _ := newRedisCache(t)
	return map[string]quoteCache{
		"redis":  rc,
		"memory": NewMemoryCache(testConfig()),
	}
}

func TestCache_Quotes(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := c.GetQuote(ctx, "AAPL")
			require.ErrorIs(t, err, ErrNotFound)

			asOf := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
			err = c.SetQuotes(ctx, []model.Quote{{
				Symbol:        "AAPL",
				Price:         decimal.NewNullDecimal(decimal.RequireFromString("171.25")),
				Change:        decimal.NewNullDecimal(decimal.RequireFromString("-0.5")),
				Currency:      model.CurrencyUSD,
				Source:        "yahoo",
				AsOf:          asOf,
				ChangePercent: decimal.NullDecimal{},
			}})
			require.NoError(t, err)

			q, err := c.GetQuote(ctx, "AAPL")
			require.NoError(t, err)
			assert.True(t, q.Price.Decimal.Equal(decimal.RequireFromString("171.25")))
			assert.True(t, q.Change.Decimal.Equal(decimal.RequireFromString("-0.5")))
			assert.False(t, q.ChangePercent.Valid)
			assert.Equal(t, model.CurrencyUSD, q.Currency)
			assert.True(t, q.AsOf.Equal(asOf))
		})
	}
}

func TestCache_FXRate(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := c.GetFXRate(ctx, "USDCAD")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, c.SetFXRate(ctx, "USDCAD", decimal.RequireFromString("1.3587")))

			rate, err := c.GetFXRate(ctx, "USDCAD")
			require.NoError(t, err)
			assert.True(t, rate.Equal(decimal.RequireFromString("1.3587")))
		})
	}
}

func TestRedisCache_Expiration(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetFXRate(ctx, "USDCAD", decimal.RequireFromString("1.36")))
	require.NoError(t, c.SetQuotes(ctx, []model.Quote{{Symbol: "AAPL", Price: decimal.NewNullDecimal(decimal.NewFromInt(1))}}))

	assert.Equal(t, time.Hour, mr.TTL(fxKey("USDCAD")))
	assert.Equal(t, 15*time.Minute, mr.TTL(quoteKey("AAPL")))

	mr.FastForward(time.Hour + time.Second)

	_, err := c.GetFXRate(ctx, "USDCAD")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.GetQuote(ctx, "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCache_SetQuotesEmpty(t *testing.T) {
	c, mr := newRedisCache(t)

	require.NoError(t, c.SetQuotes(context.Background(), nil))
	assert.Empty(t, mr.Keys())
}
