package sectorService

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/converter/sectorConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/fmpModel"
	"github.com/KotFed0t/finance_tracker/internal/model/yahooModel"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/utils"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	GetSectorSymbols(ctx context.Context) ([]model.SectorSymbol, error)
	UpsertSectorWeightings(ctx context.Context, symbol string, weightings []model.SectorWeighting, updatedAt time.Time) error
}

type FmpProvider interface {
	Enabled() bool
	GetEtfSectorWeightings(ctx context.Context, symbol string) ([]fmpModel.EtfSectorWeighting, error)
	GetProfile(ctx context.Context, symbol string) (fmpModel.Profile, error)
}

type YahooProvider interface {
	GetQuoteSummary(ctx context.Context, symbol string) (yahooModel.QuoteSummaryResult, error)
}

type SectorService struct {
	repo  Repository
	fmp   FmpProvider
	yahoo YahooProvider
	now   func() time.Time
}

func New(repo Repository, fmp FmpProvider, yahoo YahooProvider) *SectorService {
	return &SectorService{repo: repo, fmp: fmp, yahoo: yahoo, now: time.Now}
}

// RefreshSectors resolves sector weightings for every holding and underlying symbol.
func (s *SectorService) RefreshSectors(ctx context.Context) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SectorService.RefreshSectors"

	symbols, err := s.repo.GetSectorSymbols(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: get symbols: %w", op, err)
	}
	if len(symbols) == 0 {
		return service.StatusNoHoldings, nil
	}

	resolved := make(map[string][]model.SectorWeighting, len(symbols))
	for _, sym := range symbols {
		if err = ctx.Err(); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		resolved[sym.Symbol] = s.Weightings(ctx, sym)
	}

	updatedAt := s.now().UTC()
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		for symbol, ws := range resolved {
			if err := s.repo.UpsertSectorWeightings(ctx, symbol, ws, updatedAt); err != nil {
				return fmt.Errorf("upsert %s: %w", symbol, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("sector weightings refreshed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(resolved)))

	return service.StatusSuccess, nil
}

// Weightings tries FMP, then Yahoo, and settles on Other.
func (s *SectorService) Weightings(ctx context.Context, sym model.SectorSymbol) []model.SectorWeighting {
	rqID := utils.GetRequestIDFromCtx(ctx)

	if ws := s.fromFmp(ctx, sym); len(ws) > 0 {
		return ws
	}

	summary, err := s.yahoo.GetQuoteSummary(ctx, sym.Symbol)
	if err == nil {
		if ws := sectorConverter.FromYahooSummary(summary); len(ws) > 0 {
			return ws
		}
	} else {
		slog.Debug("yahoo sector lookup failed", slog.String("rqID", rqID), slog.String("symbol", sym.Symbol), slog.String("err", err.Error()))
	}

	slog.Warn("no sector data, using Other", slog.String("rqID", rqID), slog.String("symbol", sym.Symbol))
	return model.OtherSector()
}

func (s *SectorService) fromFmp(ctx context.Context, sym model.SectorSymbol) []model.SectorWeighting {
	if !s.fmp.Enabled() {
		return nil
	}
	rqID := utils.GetRequestIDFromCtx(ctx)

	if sym.IsETF {
		raw, err := s.fmp.GetEtfSectorWeightings(ctx, sym.Symbol)
		if err != nil {
			slog.Debug("fmp etf weightings failed", slog.String("rqID", rqID), slog.String("symbol", sym.Symbol), slog.String("err", err.Error()))
			return nil
		}
		return sectorConverter.FromFmpEtfWeightings(raw)
	}

	profile, err := s.fmp.GetProfile(ctx, sym.Symbol)
	if err != nil {
		slog.Debug("fmp profile failed", slog.String("rqID", rqID), slog.String("symbol", sym.Symbol), slog.String("err", err.Error()))
		return nil
	}
	return sectorConverter.FromFmpProfile(profile)
}
