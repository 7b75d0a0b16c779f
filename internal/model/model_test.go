package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyForSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"XIU.TO", CurrencyCAD},
		{"vfv.to", CurrencyCAD},
		{"ABC.V", CurrencyCAD},
		{"CASH.NE", CurrencyCAD},
		{"XYZ.CN", CurrencyCAD},
		{"AAPL", CurrencyUSD},
		{"BRK.B", CurrencyUSD},
		{" spy ", CurrencyUSD},
		{"USDCAD=X", ""},
		{"eurusd=x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrencyForSymbol(tt.symbol))
		})
	}
}

func TestIsFXSymbol(t *testing.T) {
	assert.True(t, IsFXSymbol("USDCAD=X"))
	assert.True(t, IsFXSymbol(" cadusd=x"))
	assert.False(t, IsFXSymbol("XIU.TO"))
	assert.False(t, IsFXSymbol("AAPL"))
}

func TestSummarizeBudget(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("1.5")}
	holdings := []Holding{
		{ID: 1, Symbol: "ENB.TO", Currency: CurrencyCAD, Quantity: dec("100"), DividendAnnualPerShare: nd("3.6")},
		{ID: 2, Symbol: "KO", Currency: CurrencyUSD, Quantity: dec("10"), DividendAnnualPerShare: nd("2"), IsDividendManual: true},
		{ID: 3, Symbol: "TSLA", Currency: CurrencyUSD, Quantity: dec("5")},
	}
	items := []BudgetItem{
		{Type: BudgetItemIncome, Name: "salary", AmountMonthly: dec("5000")},
		{Type: BudgetItemExpense, Name: "rent", AmountMonthly: dec("2000")},
		{Type: BudgetItemExpense, Name: "food", AmountMonthly: dec("600")},
	}

	s := SummarizeBudget(items, holdings, conv)

	// 360 CAD + 20 USD * 1.5 = 390 в год
	assert.True(t, s.DividendAnnual.Equal(dec("390")))
	assert.True(t, s.DividendMonthly.Equal(dec("32.5")))
	assert.True(t, s.OtherIncome.Equal(dec("5000")))
	assert.True(t, s.Expenses.Equal(dec("2600")))
	assert.True(t, s.TotalIncome.Equal(dec("5032.5")))
	assert.True(t, s.NetSurplus.Equal(dec("2432.5")))

	require.Len(t, s.DividendBreakdown, 2)
	assert.Equal(t, "ENB.TO", s.DividendBreakdown[0].Symbol)
	assert.True(t, s.DividendBreakdown[1].IsManual)
	assert.Len(t, s.IncomeItems, 1)
	assert.Len(t, s.ExpenseItems, 2)
}

func TestNormalizeWeightings(t *testing.T) {
	res := NormalizeWeightings([]SectorWeighting{
		{Sector: "Technology", Weight: dec("30")},
		{Sector: "Energy", Weight: dec("10")},
		{Sector: "", Weight: dec("60")},
	})

	require.Len(t, res, 2)
	assert.True(t, res[0].Weight.Equal(dec("0.75")))
	assert.True(t, res[1].Weight.Equal(dec("0.25")))

	assert.Nil(t, NormalizeWeightings([]SectorWeighting{{Sector: "Energy", Weight: decimal.Zero}}))
}

func TestSectorExposures(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("2")}
	holdings := []Holding{
		{Symbol: "XEG.TO", Currency: CurrencyCAD, MarketValue: nd("100")},
		{Symbol: "QQQ", Currency: CurrencyUSD, MarketValue: nd("100")},
		{Symbol: "NOPRICE", Currency: CurrencyUSD},
		{Symbol: "UNKNOWN.TO", Currency: CurrencyCAD, MarketValue: nd("50")},
	}
	weightings := map[string][]SectorWeighting{
		"XEG.TO": {{Sector: "Energy", Weight: dec("1")}},
		"QQQ":    {{Sector: "Technology", Weight: dec("0.5")}, {Sector: "Energy", Weight: dec("0.5")}},
	}

	res := SectorExposures(holdings, weightings, conv)

	require.Len(t, res, 3)
	assert.Equal(t, "Energy", res[0].Sector)
	assert.True(t, res[0].Value.Equal(dec("200")))
	assert.Equal(t, "Technology", res[1].Sector)
	assert.True(t, res[1].Value.Equal(dec("100")))
	assert.Equal(t, SectorOther, res[2].Sector)
	assert.True(t, res[2].Value.Equal(dec("50")))
}

func TestGroupHoldings(t *testing.T) {
	portfolios := []Portfolio{{ID: 1, Name: "TFSA"}, {ID: 2, Name: "RRSP"}}
	holdings := []Holding{
		{ID: 10, PortfolioID: 2, Symbol: "VFV.TO"},
		{ID: 11, PortfolioID: 1, Symbol: "XIU.TO"},
		{ID: 12, PortfolioID: 2, Symbol: "AAPL"},
	}

	res := GroupHoldings(portfolios, holdings)

	require.Len(t, res, 2)
	assert.Equal(t, "TFSA", res[0].Name)
	assert.Len(t, res[0].Holdings, 1)
	assert.Equal(t, "RRSP", res[1].Name)
	assert.Len(t, res[1].Holdings, 2)

	empty := GroupHoldings([]Portfolio{{ID: 3}}, nil)
	require.Len(t, empty, 1)
	assert.Empty(t, empty[0].Holdings)
}
