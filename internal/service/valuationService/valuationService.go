package valuationService

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/marketCalendar"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/utils"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	LockHoldings(ctx context.Context) ([]model.Holding, error)
	UpdateHoldingValuations(ctx context.Context, holdings []model.Holding) error
	GetStaleHoldings(ctx context.Context, cutoff time.Time) ([]model.Holding, error)
}

type QuoteFetcher interface {
	GetQuotes(ctx context.Context, symbols []string) map[string]model.Quote
}

type Gate interface {
	ShouldRun(now time.Time, mode marketCalendar.Mode, force bool) marketCalendar.Decision
}

type ValuationService struct {
	cfg    *config.Config
	repo   Repository
	quotes QuoteFetcher
	gate   Gate
	now    func() time.Time
}

func New(cfg *config.Config, repo Repository, quotes QuoteFetcher, gate Gate) *ValuationService {
	return &ValuationService{
		cfg:    cfg,
		repo:   repo,
		quotes: quotes,
		gate:   gate,
		now:    time.Now,
	}
}

// UpdatePrices is the scheduled entry point and respects the trading calendar.
func (s *ValuationService) UpdatePrices(ctx context.Context) (string, error) {
	return s.RunUpdate(ctx, false)
}

func (s *ValuationService) UpdatePricesForced(ctx context.Context) (string, error) {
	return s.RunUpdate(ctx, true)
}

// RunUpdate refreshes every holding that received a price. Holdings without a
// price keep their previous values; all writes share one transaction.
func (s *ValuationService) RunUpdate(ctx context.Context, force bool) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ValuationService.RunUpdate"
	now := s.now()

	decision := s.gate.ShouldRun(now, marketCalendar.ModeIntraday, force)
	if !decision.Run {
		slog.Info("price update skipped", slog.String("rqID", rqID), slog.String("op", op), slog.String("status", decision.Status))
		return decision.Status, nil
	}

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: get holdings: %w", op, err)
	}
	if len(holdings) == 0 {
		return service.StatusNoHoldings, nil
	}

	symbols := make([]string, 0, len(holdings)+1)
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	// курс обновляется попутно в кэше
	symbols = append(symbols, s.cfg.Market.FXSymbol)

	quotes := s.quotes.GetQuotes(ctx, symbols)

	var updated, missing int
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.repo.LockHoldings(ctx)
		if err != nil {
			return fmt.Errorf("lock holdings: %w", err)
		}

		changed := make([]model.Holding, 0, len(locked))
		for i := range locked {
			h := locked[i]
			quote, ok := quotes[model.NormalizeSymbol(h.Symbol)]
			if !ok || !model.ApplyQuote(&h, quote, now) {
				missing++
				continue
			}
			changed = append(changed, h)
		}
		updated = len(changed)

		if err = s.repo.UpdateHoldingValuations(ctx, changed); err != nil {
			return fmt.Errorf("update holdings: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	slog.Info(
		"prices updated",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int("updated", updated),
		slog.Int("withoutPrice", missing),
		slog.Bool("forced", force),
	)

	return service.StatusSuccess, nil
}

// StaleHoldings lists holdings not priced within the staleness threshold.
func (s *ValuationService) StaleHoldings(ctx context.Context) ([]model.Holding, error) {
	cutoff := s.now().Add(-s.cfg.Market.StalenessThreshold)

	holdings, err := s.repo.GetStaleHoldings(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("ValuationService.StaleHoldings: %w", err)
	}
	return holdings, nil
}
