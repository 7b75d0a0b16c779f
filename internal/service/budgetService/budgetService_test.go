package budgetService

import (
	"context"
	"testing"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	items    []model.BudgetItem
	holdings []model.Holding
}

func (m *mockRepo) GetBudgetItems(context.Context) ([]model.BudgetItem, error) {
	return m.items, nil
}

func (m *mockRepo) CreateBudgetItem(_ context.Context, item model.BudgetItem) (int64, error) {
	m.items = append(m.items, item)
	return int64(len(m.items)), nil
}

func (m *mockRepo) GetHoldings(context.Context) ([]model.Holding, error) {
	return m.holdings, nil
}

type fixedRate struct{ rate decimal.Decimal }

func (f fixedRate) GetRate(context.Context) decimal.Decimal { return f.rate }

func newTestService(repo *mockRepo) *BudgetService {
	cfg := &config.Config{Market: config.Market{HomeCurrency: model.CurrencyCAD}}
	return New(cfg, repo, fixedRate{rate: decimal.RequireFromString("1.4")})
}

func TestSummary(t *testing.T) {
	repo := &mockRepo{
		items: []model.BudgetItem{{Type: model.BudgetItemExpense, Name: "rent", AmountMonthly: decimal.NewFromInt(100)}},
		holdings: []model.Holding{
			{Symbol: "T", Currency: model.CurrencyUSD, Quantity: decimal.NewFromInt(100), DividendAnnualPerShare: decimal.NewNullDecimal(decimal.RequireFromString("1.2"))},
		},
	}

	s, err := newTestService(repo).Summary(context.Background())

	require.NoError(t, err)
	// 120 USD * 1.4 = 168 в год, 14 в месяц
	assert.True(t, s.DividendAnnual.Equal(decimal.NewFromInt(168)))
	assert.True(t, s.DividendMonthly.Equal(decimal.NewFromInt(14)))
	assert.True(t, s.NetSurplus.Equal(decimal.NewFromInt(-86)))
}

func TestAddItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		item model.BudgetItem
	}{
		{"empty name", model.BudgetItem{Type: model.BudgetItemIncome, Name: "  ", AmountMonthly: decimal.NewFromInt(1)}},
		{"negative amount", model.BudgetItem{Type: model.BudgetItemExpense, Name: "gym", AmountMonthly: decimal.NewFromInt(-5)}},
		{"unknown type", model.BudgetItem{Type: "gift", Name: "gym", AmountMonthly: decimal.NewFromInt(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			_, err := newTestService(repo).AddItem(context.Background(), tt.item)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Empty(t, repo.items)
		})
	}
}

func TestAddItem(t *testing.T) {
	repo := &mockRepo{}

	id, err := newTestService(repo).AddItem(context.Background(), model.BudgetItem{
		Type:          model.BudgetItemIncome,
		Name:          " side job ",
		AmountMonthly: decimal.NewFromInt(300),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "side job", repo.items[0].Name)
}
