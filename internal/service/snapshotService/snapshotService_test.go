package snapshotService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/data/repository"
	"github.com/KotFed0t/finance_tracker/internal/marketCalendar"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/internal/service/fxService"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	holdings   []model.Holding
	portfolios []model.Portfolio

	portfolioRows []model.PortfolioSnapshot
	globalRows    []model.GlobalSnapshot

	// имитирует вставку параллельным запуском
	insertErr error
	txCalls   int
}

func (m *mockRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	m.txCalls++
	portfolioRows, globalRows := len(m.portfolioRows), len(m.globalRows)
	if err := tFunc(ctx); err != nil {
		m.portfolioRows = m.portfolioRows[:portfolioRows]
		m.globalRows = m.globalRows[:globalRows]
		return err
	}
	return nil
}

func (m *mockRepo) GetHoldings(context.Context) ([]model.Holding, error) {
	return m.holdings, nil
}

func (m *mockRepo) GetPortfolios(context.Context) ([]model.Portfolio, error) {
	return m.portfolios, nil
}

func (m *mockRepo) InsertPortfolioSnapshots(_ context.Context, snapshots []model.PortfolioSnapshot) error {
	m.portfolioRows = append(m.portfolioRows, snapshots...)
	return nil
}

func (m *mockRepo) InsertGlobalSnapshot(_ context.Context, snapshot model.GlobalSnapshot) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.globalRows = append(m.globalRows, snapshot)
	return int64(len(m.globalRows)), nil
}

func (m *mockRepo) EODSnapshotExists(_ context.Context, date time.Time) (bool, error) {
	for _, row := range m.globalRows {
		if row.IsEOD && row.SnapshotDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) eodRows() int {
	n := 0
	for _, row := range m.globalRows {
		if row.IsEOD {
			n++
		}
	}
	return n
}

type fixedRate struct {
	rate decimal.Decimal
}

func (f fixedRate) GetRate(context.Context) decimal.Decimal {
	return f.rate
}

type failingStore struct{}

func (failingStore) GetFXRate(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("redis: connection refused")
}

func (failingStore) SetFXRate(context.Context, string, decimal.Decimal) error {
	return errors.New("redis: connection refused")
}

type failingQuotes struct{}

func (failingQuotes) GetQuotes(_ context.Context, symbols []string) map[string]model.Quote {
	res := make(map[string]model.Quote, len(symbols))
	for _, s := range symbols {
		res[s] = model.EmptyQuote(s)
	}
	return res
}

func testConfig() *config.Config {
	return &config.Config{Market: config.Market{
		HomeCurrency:   model.CurrencyCAD,
		FXPair:         "USDCAD",
		FXSymbol:       "USDCAD=X",
		FXFallbackRate: 1.37,
	}}
}

func newTestService(t *testing.T, repo *mockRepo, fx RateProvider, now time.Time, extraHolidays ...string) *SnapshotService {
	t.Helper()
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	cal, err := marketCalendar.NewCalendar(loc, 8, 21, extraHolidays)
	require.NoError(t, err)

	s := New(testConfig(), repo, fx, cal)
	s.now = func() time.Time { return now }
	return s
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleRepo() *mockRepo {
	return &mockRepo{
		portfolios: []model.Portfolio{{ID: 1, Name: "TFSA"}, {ID: 2, Name: "RRSP"}, {ID: 3, Name: "Empty"}},
		holdings: []model.Holding{
			{ID: 1, PortfolioID: 1, Symbol: "XIU.TO", Currency: model.CurrencyCAD, Quantity: decimal.NewFromInt(1), MarketValue: nd("1000")},
			{ID: 2, PortfolioID: 2, Symbol: "AAPL", Currency: model.CurrencyUSD, Quantity: decimal.NewFromInt(1), MarketValue: nd("500")},
		},
	}
}

// понедельник, 16:30 по Торонто
var tradingAfternoon = time.Date(2025, 3, 10, 20, 30, 0, 0, time.UTC)

func TestTakeIntradaySnapshot(t *testing.T) {
	repo := sampleRepo()
	s := newTestService(t, repo, fixedRate{rate: decimal.RequireFromString("1.35")}, tradingAfternoon)

	status, err := s.TakeIntradaySnapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)
	require.Len(t, repo.portfolioRows, 3)
	assert.True(t, repo.portfolioRows[0].TotalValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, repo.portfolioRows[1].TotalValue.Equal(decimal.RequireFromString("675")))
	assert.True(t, repo.portfolioRows[2].TotalValue.IsZero())

	require.Len(t, repo.globalRows, 1)
	assert.False(t, repo.globalRows[0].IsEOD)
	assert.True(t, repo.globalRows[0].TotalValue.Equal(decimal.RequireFromString("1675")))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), repo.globalRows[0].SnapshotDate)
	assert.Equal(t, 1, repo.txCalls)
}

func TestTakeIntradaySnapshot_OutsideWindow(t *testing.T) {
	repo := sampleRepo()
	late := time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	s := newTestService(t, repo, fixedRate{rate: decimal.NewFromInt(1)}, late)

	status, err := s.TakeIntradaySnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, marketCalendar.StatusOutsideWindow, status)
	assert.Empty(t, repo.globalRows)

	status, err = s.TakeIntradaySnapshotForced(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)
	assert.Len(t, repo.globalRows, 1)
}

func TestSnapshots_NonTradingDays(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		extra []string
	}{
		{"saturday", time.Date(2025, 3, 8, 18, 0, 0, 0, time.UTC), nil},
		{"sunday", time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC), nil},
		{"configured holiday", tradingAfternoon, []string{"2025-03-10"}},
		{"canada day", time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := sampleRepo()
			s := newTestService(t, repo, fixedRate{rate: decimal.NewFromInt(1)}, tt.now, tt.extra...)

			status, err := s.TakeIntradaySnapshot(context.Background())
			require.NoError(t, err)
			assert.Equal(t, marketCalendar.StatusNonTradingDay, status)

			status, err = s.TakeEndOfDaySnapshot(context.Background())
			require.NoError(t, err)
			assert.Equal(t, marketCalendar.StatusNonTradingDay, status)

			assert.Empty(t, repo.portfolioRows)
			assert.Empty(t, repo.globalRows)
		})
	}
}

func TestTakeEndOfDaySnapshot_Idempotent(t *testing.T) {
	repo := sampleRepo()
	s := newTestService(t, repo, fixedRate{rate: decimal.RequireFromString("1.35")}, tradingAfternoon)

	status, err := s.TakeEndOfDaySnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)

	status, err = s.TakeEndOfDaySnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusAlreadyExists, status)

	assert.Equal(t, 1, repo.eodRows())
	assert.Empty(t, repo.portfolioRows)
	assert.True(t, repo.globalRows[0].TotalValue.Equal(decimal.RequireFromString("1675")))
}

func TestTakeEndOfDaySnapshot_IntradayRowsDoNotCount(t *testing.T) {
	repo := sampleRepo()
	s := newTestService(t, repo, fixedRate{rate: decimal.NewFromInt(1)}, tradingAfternoon)

	_, err := s.TakeIntradaySnapshot(context.Background())
	require.NoError(t, err)

	status, err := s.TakeEndOfDaySnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)
	assert.Equal(t, 1, repo.eodRows())
}

func TestTakeEndOfDaySnapshot_ConcurrentInsert(t *testing.T) {
	repo := sampleRepo()
	repo.insertErr = repository.ErrAlreadyExists
	s := newTestService(t, repo, fixedRate{rate: decimal.NewFromInt(1)}, tradingAfternoon)

	status, err := s.TakeEndOfDaySnapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.StatusAlreadyExists, status)
}

func TestSnapshots_NoHoldings(t *testing.T) {
	repo := &mockRepo{portfolios: []model.Portfolio{{ID: 1}}}
	s := newTestService(t, repo, fixedRate{rate: decimal.NewFromInt(1)}, tradingAfternoon)

	status, err := s.TakeIntradaySnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusNoHoldings, status)

	status, err = s.TakeEndOfDaySnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.StatusNoHoldings, status)
	assert.Empty(t, repo.globalRows)
}

func TestTakeIntradaySnapshot_FXFallback(t *testing.T) {
	repo := sampleRepo()
	fx := fxService.New(testConfig(), failingStore{}, failingQuotes{})
	s := newTestService(t, repo, fx, tradingAfternoon)

	status, err := s.TakeIntradaySnapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, status)
	require.Len(t, repo.globalRows, 1)
	// 1000 + 500 * 1.37
	assert.True(t, repo.globalRows[0].TotalValue.Equal(decimal.RequireFromString("1685")))
}
