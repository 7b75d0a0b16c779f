package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/data/repository"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	GetPortfolios(ctx context.Context) ([]model.Portfolio, error)
	GetPortfolioByName(ctx context.Context, name string) (model.Portfolio, error)
	ClearDefaultPortfolio(ctx context.Context) error
	CreatePortfolio(ctx context.Context, p model.Portfolio) (int64, error)
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	CreateHolding(ctx context.Context, h model.Holding) (int64, error)
	CreateUnderlyings(ctx context.Context, holdingID int64, underlyings []model.Underlying) error
	DeleteHolding(ctx context.Context, holdingID int64) error
	GetLatestGlobalSnapshot(ctx context.Context) (model.GlobalSnapshot, error)
}

type QuoteGetter interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
}

type RateProvider interface {
	GetRate(ctx context.Context) decimal.Decimal
}

type PortfolioService struct {
	cfg    *config.Config
	repo   Repository
	quotes QuoteGetter
	fx     RateProvider
	now    func() time.Time
}

func New(cfg *config.Config, repo Repository, quotes QuoteGetter, fx RateProvider) *PortfolioService {
	return &PortfolioService{cfg: cfg, repo: repo, quotes: quotes, fx: fx, now: time.Now}
}

// CreatePortfolio makes the new portfolio the only default one when isDefault is set.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, name string, isDefault bool) (model.Portfolio, error) {
	op := "PortfolioService.CreatePortfolio"

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Portfolio{}, service.ErrInvalidInput
	}

	p := model.Portfolio{Name: name, IsDefault: isDefault}
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if isDefault {
			if err := s.repo.ClearDefaultPortfolio(ctx); err != nil {
				return err
			}
		}
		id, err := s.repo.CreatePortfolio(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Portfolio{}, service.ErrAlreadyExists
		}
		return model.Portfolio{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *PortfolioService) ListPortfolios(ctx context.Context) ([]model.PortfolioHoldings, error) {
	op := "PortfolioService.ListPortfolios"

	portfolios, err := s.repo.GetPortfolios(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return model.GroupHoldings(portfolios, holdings), nil
}

// AddHolding stores a holding in the named portfolio. The currency is derived
// from the symbol once here; a quote is applied when one is available.
func (s *PortfolioService) AddHolding(ctx context.Context, portfolioName string, nh model.NewHolding) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddHolding"

	nh.Symbol = model.NormalizeSymbol(nh.Symbol)
	if nh.Symbol == "" || model.IsFXSymbol(nh.Symbol) || !nh.Quantity.IsPositive() || nh.PurchasePrice.IsNegative() {
		return model.Holding{}, service.ErrInvalidInput
	}
	if _, ok := model.ParseHoldingType(string(nh.Type)); !ok {
		return model.Holding{}, service.ErrInvalidInput
	}
	// разбивка на составляющие есть только у ETF
	if nh.Type != model.HoldingTypeETF && len(nh.Underlyings) > 0 {
		return model.Holding{}, service.ErrInvalidInput
	}

	portfolio, err := s.repo.GetPortfolioByName(ctx, portfolioName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Holding{}, service.ErrNotFound
		}
		return model.Holding{}, fmt.Errorf("%s: %w", op, err)
	}

	h := model.Holding{
		PortfolioID:   portfolio.ID,
		Symbol:        nh.Symbol,
		Type:          nh.Type,
		Quantity:      nh.Quantity,
		PurchasePrice: nh.PurchasePrice,
		Currency:      model.CurrencyForSymbol(nh.Symbol),
	}

	quote, err := s.quotes.GetQuote(ctx, nh.Symbol)
	if err == nil {
		model.ApplyQuote(&h, quote, s.now())
	} else {
		slog.Warn("holding added without price", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", nh.Symbol), slog.String("err", err.Error()))
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repo.CreateHolding(ctx, h)
		if err != nil {
			return err
		}
		h.ID = id

		if len(nh.Underlyings) == 0 {
			return nil
		}
		for i := range nh.Underlyings {
			nh.Underlyings[i].Symbol = model.NormalizeSymbol(nh.Underlyings[i].Symbol)
			nh.Underlyings[i].HoldingID = id
		}
		h.Underlyings = nh.Underlyings
		return s.repo.CreateUnderlyings(ctx, id, nh.Underlyings)
	})
	if err != nil {
		return model.Holding{}, fmt.Errorf("%s: %w", op, err)
	}

	return h, nil
}

func (s *PortfolioService) DeleteHolding(ctx context.Context, holdingID int64) error {
	err := s.repo.DeleteHolding(ctx, holdingID)
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("PortfolioService.DeleteHolding: %w", err)
	}
	return nil
}

// Overview values current holdings live and attaches the latest stored snapshot if any.
func (s *PortfolioService) Overview(ctx context.Context) (model.Overview, error) {
	op := "PortfolioService.Overview"

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		return model.Overview{}, fmt.Errorf("%s: %w", op, err)
	}

	rate := s.fx.GetRate(ctx)
	overview := model.Overview{
		HomeCurrency:  s.cfg.Market.HomeCurrency,
		FXRate:        rate,
		Live:          model.Aggregate(holdings, model.Converter{HomeCurrency: s.cfg.Market.HomeCurrency, Rate: rate}),
		HoldingsCount: len(holdings),
	}

	latest, err := s.repo.GetLatestGlobalSnapshot(ctx)
	switch {
	case err == nil:
		overview.Latest = &latest
	case errors.Is(err, repository.ErrNotFound):
	default:
		return model.Overview{}, fmt.Errorf("%s: %w", op, err)
	}

	return overview, nil
}
