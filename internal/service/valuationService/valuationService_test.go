package valuationService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/marketCalendar"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	holdings  []model.Holding
	updated   []model.Holding
	updateErr error
	cutoff    time.Time
}

func (m *mockRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	return tFunc(ctx)
}

func (m *mockRepo) GetHoldings(context.Context) ([]model.Holding, error) {
	return m.holdings, nil
}

func (m *mockRepo) LockHoldings(context.Context) ([]model.Holding, error) {
	res := make([]model.Holding, len(m.holdings))
	copy(res, m.holdings)
	return res, nil
}

func (m *mockRepo) UpdateHoldingValuations(_ context.Context, holdings []model.Holding) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = holdings
	byID := make(map[int64]model.Holding, len(holdings))
	for _, h := range holdings {
		byID[h.ID] = h
	}
	for i, h := range m.holdings {
		if u, ok := byID[h.ID]; ok {
			m.holdings[i] = u
		}
	}
	return nil
}

func (m *mockRepo) GetStaleHoldings(_ context.Context, cutoff time.Time) ([]model.Holding, error) {
	m.cutoff = cutoff
	var res []model.Holding
	for _, h := range m.holdings {
		if h.IsStale(cutoff) {
			res = append(res, h)
		}
	}
	return res, nil
}

type mockQuotes struct {
	prices    map[string]string
	requested []string
}

func (m *mockQuotes) GetQuotes(_ context.Context, symbols []string) map[string]model.Quote {
	m.requested = symbols
	res := make(map[string]model.Quote, len(symbols))
	for _, s := range symbols {
		q := model.EmptyQuote(s)
		if p, ok := m.prices[s]; ok {
			q.Price = decimal.NewNullDecimal(decimal.RequireFromString(p))
			q.Change = decimal.NewNullDecimal(decimal.RequireFromString("1"))
		}
		res[s] = q
	}
	return res
}

type mockGate struct {
	decision marketCalendar.Decision
	forced   bool
}

func (m *mockGate) ShouldRun(_ time.Time, _ marketCalendar.Mode, force bool) marketCalendar.Decision {
	m.forced = force
	if force {
		return marketCalendar.Decision{Run: true, Status: marketCalendar.StatusRun}
	}
	return m.decision
}

var now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newTestService(repo *mockRepo, quotes *mockQuotes, gate *mockGate) *ValuationService {
	cfg := &config.Config{Market: config.Market{FXSymbol: "USDCAD=X", StalenessThreshold: 30 * time.Minute}}
	s := New(cfg, repo, quotes, gate)
	s.now = func() time.Time { return now }
	return s
}

func openGate() *mockGate {
	return &mockGate{decision: marketCalendar.Decision{Run: true, Status: marketCalendar.StatusRun}}
}

func TestRunUpdate_AppliesQuotesAndKeepsMissing(t *testing.T) {
	previous := now.Add(-time.Hour)
	repo := &mockRepo{holdings: []model.Holding{
		{ID: 1, Symbol: "AAPL", Quantity: decimal.NewFromInt(10), PurchasePrice: decimal.NewFromInt(150)},
		{
			ID:              2,
			Symbol:          "DELISTED",
			Quantity:        decimal.NewFromInt(5),
			PurchasePrice:   decimal.NewFromInt(10),
			CurrentPrice:    decimal.NewNullDecimal(decimal.NewFromInt(8)),
			MarketValue:     decimal.NewNullDecimal(decimal.NewFromInt(40)),
			LastPriceUpdate: &previous,
		},
	}}
	before := repo.holdings[1]
	quotes := &mockQuotes{prices: map[string]string{"AAPL": "171.5"}}

	status, err := newTestService(repo, quotes, openGate()).UpdatePrices(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)
	assert.Contains(t, quotes.requested, "USDCAD=X")

	require.Len(t, repo.updated, 1)
	aapl := repo.holdings[0]
	assert.True(t, aapl.MarketValue.Decimal.Equal(decimal.NewFromInt(1715)))
	assert.True(t, aapl.AllTimeGainLoss.Decimal.Equal(decimal.NewFromInt(215)))
	require.NotNil(t, aapl.LastPriceUpdate)
	assert.Equal(t, now, *aapl.LastPriceUpdate)

	assert.Equal(t, before, repo.holdings[1])
}

func TestRunUpdate_GateClosed(t *testing.T) {
	repo := &mockRepo{holdings: []model.Holding{{ID: 1, Symbol: "AAPL", Quantity: decimal.NewFromInt(1)}}}
	quotes := &mockQuotes{}
	gate := &mockGate{decision: marketCalendar.Decision{Status: marketCalendar.StatusOutsideWindow}}
	s := newTestService(repo, quotes, gate)

	status, err := s.UpdatePrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, marketCalendar.StatusOutsideWindow, status)
	assert.Nil(t, quotes.requested)

	status, err = s.UpdatePricesForced(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)
	assert.True(t, gate.forced)
}

func TestRunUpdate_NoHoldings(t *testing.T) {
	quotes := &mockQuotes{}

	status, err := newTestService(&mockRepo{}, quotes, openGate()).UpdatePrices(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.StatusNoHoldings, status)
	assert.Nil(t, quotes.requested)
}

func TestRunUpdate_WriteFailure(t *testing.T) {
	repo := &mockRepo{
		holdings:  []model.Holding{{ID: 1, Symbol: "AAPL", Quantity: decimal.NewFromInt(1)}},
		updateErr: errors.New("deadlock detected"),
	}

	_, err := newTestService(repo, &mockQuotes{prices: map[string]string{"AAPL": "1"}}, openGate()).UpdatePrices(context.Background())

	assert.Error(t, err)
}

func TestStaleHoldings(t *testing.T) {
	fresh := now.Add(-10 * time.Minute)
	old := now.Add(-2 * time.Hour)
	repo := &mockRepo{holdings: []model.Holding{
		{ID: 1, Symbol: "FRESH", LastPriceUpdate: &fresh},
		{ID: 2, Symbol: "OLD", LastPriceUpdate: &old},
		{ID: 3, Symbol: "NEVER"},
	}}

	stale, err := newTestService(repo, &mockQuotes{}, openGate()).StaleHoldings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*time.Minute), repo.cutoff)
	require.Len(t, stale, 2)
	assert.Equal(t, "OLD", stale[0].Symbol)
	assert.Equal(t, "NEVER", stale[1].Symbol)
}
