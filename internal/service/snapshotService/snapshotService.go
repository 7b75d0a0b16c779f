package snapshotService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/data/repository"
	"github.com/KotFed0t/finance_tracker/internal/marketCalendar"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	GetPortfolios(ctx context.Context) ([]model.Portfolio, error)
	InsertPortfolioSnapshots(ctx context.Context, snapshots []model.PortfolioSnapshot) error
	InsertGlobalSnapshot(ctx context.Context, snapshot model.GlobalSnapshot) (int64, error)
	EODSnapshotExists(ctx context.Context, date time.Time) (bool, error)
}

type RateProvider interface {
	GetRate(ctx context.Context) decimal.Decimal
}

type Gate interface {
	ShouldRun(now time.Time, mode marketCalendar.Mode, force bool) marketCalendar.Decision
	LocalDate(t time.Time) time.Time
}

type SnapshotService struct {
	cfg  *config.Config
	repo Repository
	fx   RateProvider
	gate Gate
	now  func() time.Time
}

func New(cfg *config.Config, repo Repository, fx RateProvider, gate Gate) *SnapshotService {
	return &SnapshotService{
		cfg:  cfg,
		repo: repo,
		fx:   fx,
		gate: gate,
		now:  time.Now,
	}
}

func (s *SnapshotService) TakeIntradaySnapshot(ctx context.Context) (string, error) {
	return s.takeIntraday(ctx, false)
}

func (s *SnapshotService) TakeIntradaySnapshotForced(ctx context.Context) (string, error) {
	return s.takeIntraday(ctx, true)
}

func (s *SnapshotService) takeIntraday(ctx context.Context, force bool) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SnapshotService.TakeIntradaySnapshot"
	now := s.now()

	decision := s.gate.ShouldRun(now, marketCalendar.ModeIntraday, force)
	if !decision.Run {
		slog.Info("intraday snapshot skipped", slog.String("rqID", rqID), slog.String("op", op), slog.String("status", decision.Status))
		return decision.Status, nil
	}

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: get holdings: %w", op, err)
	}
	if len(holdings) == 0 {
		return service.StatusNoHoldings, nil
	}

	portfolios, err := s.repo.GetPortfolios(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: get portfolios: %w", op, err)
	}

	conv := s.converter(ctx)
	ts := now.UTC()

	portfolioSnapshots := make([]model.PortfolioSnapshot, 0, len(portfolios))
	for _, ph := range model.GroupHoldings(portfolios, holdings) {
		portfolioSnapshots = append(portfolioSnapshots, model.PortfolioSnapshot{
			PortfolioID: ph.ID,
			Timestamp:   ts,
			Valuation:   model.Aggregate(ph.Holdings, conv),
		})
	}

	global := model.GlobalSnapshot{
		Timestamp:    ts,
		SnapshotDate: s.gate.LocalDate(now),
		Valuation:    model.Aggregate(holdings, conv),
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertPortfolioSnapshots(ctx, portfolioSnapshots); err != nil {
			return fmt.Errorf("insert portfolio snapshots: %w", err)
		}
		if _, err := s.repo.InsertGlobalSnapshot(ctx, global); err != nil {
			return fmt.Errorf("insert global snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	slog.Info(
		"intraday snapshot taken",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int("portfolios", len(portfolioSnapshots)),
		slog.String("totalValue", global.TotalValue.StringFixed(2)),
		slog.String("fxRate", conv.Rate.String()),
	)

	return service.StatusSuccess, nil
}

// TakeEndOfDaySnapshot writes at most one EOD row per market-local day.
func (s *SnapshotService) TakeEndOfDaySnapshot(ctx context.Context) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SnapshotService.TakeEndOfDaySnapshot"
	now := s.now()

	decision := s.gate.ShouldRun(now, marketCalendar.ModeEndOfDay, false)
	if !decision.Run {
		slog.Info("eod snapshot skipped", slog.String("rqID", rqID), slog.String("op", op), slog.String("status", decision.Status))
		return decision.Status, nil
	}

	date := s.gate.LocalDate(now)
	conv := s.converter(ctx)

	status := service.StatusSuccess
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.EODSnapshotExists(ctx, date)
		if err != nil {
			return fmt.Errorf("check eod snapshot: %w", err)
		}
		if exists {
			status = service.StatusAlreadyExists
			return nil
		}

		holdings, err := s.repo.GetHoldings(ctx)
		if err != nil {
			return fmt.Errorf("get holdings: %w", err)
		}
		if len(holdings) == 0 {
			status = service.StatusNoHoldings
			return nil
		}

		_, err = s.repo.InsertGlobalSnapshot(ctx, model.GlobalSnapshot{
			Timestamp:    now.UTC(),
			SnapshotDate: date,
			IsEOD:        true,
			Valuation:    model.Aggregate(holdings, conv),
		})
		if err != nil {
			return fmt.Errorf("insert eod snapshot: %w", err)
		}
		return nil
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		// параллельный запуск успел вставить строку раньше
		slog.Info("eod snapshot inserted concurrently", slog.String("rqID", rqID), slog.String("op", op))
		return service.StatusAlreadyExists, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("eod snapshot finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("status", status), slog.String("date", date.Format(time.DateOnly)))

	return status, nil
}

func (s *SnapshotService) converter(ctx context.Context) model.Converter {
	return model.Converter{
		HomeCurrency: s.cfg.Market.HomeCurrency,
		Rate:         s.fx.GetRate(ctx),
	}
}
