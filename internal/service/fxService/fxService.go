package fxService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/data/cache"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
)

type Store interface {
	GetFXRate(ctx context.Context, pair string) (decimal.Decimal, error)
	SetFXRate(ctx context.Context, pair string, rate decimal.Decimal) error
}

type QuoteFetcher interface {
	GetQuotes(ctx context.Context, symbols []string) map[string]model.Quote
}

type FXService struct {
	store    Store
	quotes   QuoteFetcher
	pair     string
	symbol   string
	fallback decimal.Decimal
}

func New(cfg *config.Config, store Store, quotes QuoteFetcher) *FXService {
	return &FXService{
		store:    store,
		quotes:   quotes,
		pair:     cfg.Market.FXPair,
		symbol:   cfg.Market.FXSymbol,
		fallback: decimal.NewFromFloat(cfg.Market.FXFallbackRate),
	}
}

// GetRate never fails: cache, then a live quote, then the configured constant.
func (s *FXService) GetRate(ctx context.Context) decimal.Decimal {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FXService.GetRate"

	rate, err := s.store.GetFXRate(ctx, s.pair)
	if err == nil && rate.IsPositive() {
		slog.Debug("fx rate from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("rate", rate.String()))
		return rate
	}
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		slog.Warn("fx cache read failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	quote := s.quotes.GetQuotes(ctx, []string{s.symbol})[s.symbol]
	if quote.HasPrice() && quote.Price.Decimal.IsPositive() {
		rate = quote.Price.Decimal
		s.Store(ctx, rate)
		slog.Info("fx rate fetched", slog.String("rqID", rqID), slog.String("op", op), slog.String("rate", rate.String()))
		return rate
	}

	slog.Warn("fx rate unavailable, using fallback", slog.String("rqID", rqID), slog.String("op", op), slog.String("rate", s.fallback.String()))
	return s.fallback
}

func (s *FXService) Store(ctx context.Context, rate decimal.Decimal) {
	if err := s.store.SetFXRate(ctx, s.pair, rate); err != nil {
		slog.Warn(
			"failed to store fx rate",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("pair", s.pair),
			slog.String("err", err.Error()),
		)
	}
}
