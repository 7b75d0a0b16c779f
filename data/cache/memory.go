package cache

import (
	"context"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/model"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryCache is the in-process alternative to RedisCache for single-instance runs.
type MemoryCache struct {
	store *gocache.Cache
	cfg   *config.Config
}

func NewMemoryCache(cfg *config.Config) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(cfg.Cache.QuotesExpiration, memoryCleanupInterval),
		cfg:   cfg,
	}
}

func (m *MemoryCache) SetQuotes(_ context.Context, quotes []model.Quote) error {
	for _, quote := range quotes {
		m.store.Set(quoteKey(quote.Symbol), quote, m.cfg.Cache.QuotesExpiration)
	}
	return nil
}

func (m *MemoryCache) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	v, ok := m.store.Get(quoteKey(symbol))
	if !ok {
		return model.Quote{}, ErrNotFound
	}
	quote, ok := v.(model.Quote)
	if !ok {
		return model.Quote{}, ErrNotFound
	}
	return quote, nil
}

func (m *MemoryCache) GetFXRate(_ context.Context, pair string) (decimal.Decimal, error) {
	v, ok := m.store.Get(fxKey(pair))
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	rate, ok := v.(decimal.Decimal)
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	return rate, nil
}

func (m *MemoryCache) SetFXRate(_ context.Context, pair string, rate decimal.Decimal) error {
	m.store.Set(fxKey(pair), rate, m.cfg.Cache.FXExpiration)
	return nil
}
