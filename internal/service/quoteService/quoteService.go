package quoteService

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/data/cache"
	"github.com/KotFed0t/finance_tracker/internal/converter/quoteConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/fmpModel"
	"github.com/KotFed0t/finance_tracker/internal/model/yahooModel"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type ChartProvider interface {
	GetChart(ctx context.Context, symbol string) (yahooModel.ChartResult, error)
}

type FallbackProvider interface {
	Enabled() bool
	GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error)
}

type Cache interface {
	SetQuotes(ctx context.Context, quotes []model.Quote) error
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	SetFXRate(ctx context.Context, pair string, rate decimal.Decimal) error
}

type QuoteService struct {
	cfg      *config.Config
	primary  ChartProvider
	fallback FallbackProvider
	cache    Cache
	limiter  *rate.Limiter
	now      func() time.Time
}

func New(cfg *config.Config, primary ChartProvider, fallback FallbackProvider, cache Cache) *QuoteService {
	return &QuoteService{
		cfg:      cfg,
		primary:  primary,
		fallback: fallback,
		cache:    cache,
		limiter:  rate.NewLimiter(rate.Limit(cfg.API.Quotes.RPS), max(cfg.API.Quotes.Burst, 1)),
		now:      time.Now,
	}
}

// GetQuotes never fails: symbols the providers could not price map to a quote with null fields.
func (s *QuoteService) GetQuotes(ctx context.Context, symbols []string) map[string]model.Quote {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "QuoteService.GetQuotes"

	unique := normalizeSymbols(symbols)
	res := make(map[string]model.Quote, len(unique))
	for _, symbol := range unique {
		res[symbol] = model.EmptyQuote(symbol)
	}
	if len(unique) == 0 {
		return res
	}

	slog.Debug("GetQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(unique)))

	var mu sync.Mutex
	g := errgroup.Group{}
	g.SetLimit(max(s.cfg.API.Quotes.Concurrency, 1))

	for _, symbol := range unique {
		g.Go(func() error {
			quote := s.fetchQuote(ctx, symbol)
			mu.Lock()
			res[symbol] = quote
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	priced := make([]model.Quote, 0, len(res))
	for _, quote := range res {
		if quote.HasPrice() {
			priced = append(priced, quote)
		}
	}

	if err := s.cache.SetQuotes(ctx, priced); err != nil {
		slog.Warn("failed to cache quotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	if fx, ok := res[s.cfg.Market.FXSymbol]; ok && fx.HasPrice() && fx.Price.Decimal.IsPositive() {
		if err := s.cache.SetFXRate(ctx, s.cfg.Market.FXPair, fx.Price.Decimal); err != nil {
			slog.Warn("failed to refresh fx rate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	slog.Info(
		"GetQuotes completed",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int("requested", len(unique)),
		slog.Int("priced", len(priced)),
	)

	return res
}

func (s *QuoteService) fetchQuote(ctx context.Context, symbol string) model.Quote {
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := s.limiter.Wait(ctx); err != nil {
		slog.Warn("quote limiter wait failed", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return model.EmptyQuote(symbol)
	}

	quote := model.EmptyQuote(symbol)
	chart, err := s.primary.GetChart(ctx, symbol)
	if err != nil {
		slog.Warn("primary quote fetch failed", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
	} else {
		quote = quoteConverter.FromYahooChart(symbol, chart, s.now())
	}

	if quote.HasPrice() || !s.useFallback() {
		return quote
	}

	if err = s.limiter.Wait(ctx); err != nil {
		return quote
	}

	fq, err := s.fallback.GetQuote(ctx, symbol)
	if err != nil {
		slog.Warn("fallback quote fetch failed", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return quote
	}

	return quoteConverter.FromFmpQuote(symbol, fq, s.now())
}

func (s *QuoteService) useFallback() bool {
	return s.cfg.API.Fmp.QuoteFallback && s.fallback != nil && s.fallback.Enabled()
}

// GetQuote serves a single symbol from the cache and falls back to a live fetch.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.Quote{}, service.ErrInvalidInput
	}

	quote, err := s.cache.GetQuote(ctx, symbol)
	if err == nil && quote.HasPrice() {
		quote.Source = quoteConverter.SourceCache
		return quote, nil
	}
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		slog.Warn("quote cache read failed", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
	}

	quote = s.GetQuotes(ctx, []string{symbol})[symbol]
	if !quote.HasPrice() {
		return quote, service.ErrNotFound
	}

	return quote, nil
}

func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	res := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = model.NormalizeSymbol(symbol)
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		res = append(res, symbol)
	}
	return res
}
