package budgetService

import (
	"context"
	"fmt"
	"strings"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetBudgetItems(ctx context.Context) ([]model.BudgetItem, error)
	CreateBudgetItem(ctx context.Context, item model.BudgetItem) (int64, error)
	GetHoldings(ctx context.Context) ([]model.Holding, error)
}

type RateProvider interface {
	GetRate(ctx context.Context) decimal.Decimal
}

type BudgetService struct {
	cfg  *config.Config
	repo Repository
	fx   RateProvider
}

func New(cfg *config.Config, repo Repository, fx RateProvider) *BudgetService {
	return &BudgetService{cfg: cfg, repo: repo, fx: fx}
}

func (s *BudgetService) Summary(ctx context.Context) (model.BudgetSummary, error) {
	op := "BudgetService.Summary"

	items, err := s.repo.GetBudgetItems(ctx)
	if err != nil {
		return model.BudgetSummary{}, fmt.Errorf("%s: get items: %w", op, err)
	}

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		return model.BudgetSummary{}, fmt.Errorf("%s: get holdings: %w", op, err)
	}

	conv := model.Converter{HomeCurrency: s.cfg.Market.HomeCurrency, Rate: s.fx.GetRate(ctx)}

	return model.SummarizeBudget(items, holdings, conv), nil
}

func (s *BudgetService) AddItem(ctx context.Context, item model.BudgetItem) (int64, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.AmountMonthly.IsNegative() {
		return 0, service.ErrInvalidInput
	}
	if item.Type != model.BudgetItemIncome && item.Type != model.BudgetItemExpense {
		return 0, service.ErrInvalidInput
	}

	id, err := s.repo.CreateBudgetItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("BudgetService.AddItem: %w", err)
	}
	return id, nil
}
