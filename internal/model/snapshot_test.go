package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAggregate_CurrencyConversion(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("1.35")}
	holdings := []Holding{
		{Symbol: "XIU.TO", Currency: CurrencyCAD, Quantity: dec("1"), MarketValue: nd("1000")},
		{Symbol: "AAPL", Currency: CurrencyUSD, Quantity: dec("1"), MarketValue: nd("500")},
	}

	v := Aggregate(holdings, conv)

	assert.True(t, v.TotalValue.Equal(dec("1675")), v.TotalValue.String())
}

func TestAggregate_CurrencyFromSymbolWhenMissing(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("2")}
	holdings := []Holding{
		{Symbol: "MSFT", Quantity: dec("1"), MarketValue: nd("10")},
		{Symbol: "RY.TO", Quantity: dec("1"), MarketValue: nd("10")},
	}

	v := Aggregate(holdings, conv)

	assert.True(t, v.TotalValue.Equal(dec("30")))
}

func TestAggregate_DegenerateDailyBase(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("1.35")}
	holdings := []Holding{
		{Symbol: "X.TO", Currency: CurrencyCAD, Quantity: dec("1"), MarketValue: nd("100"), DailyChange: nd("150")},
	}

	v := Aggregate(holdings, conv)

	assert.True(t, v.DailyChange.Equal(dec("150")))
	assert.True(t, v.DailyPercent.IsZero())
}

func TestAggregate_Percentages(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("1")}
	holdings := []Holding{
		{
			Symbol:          "X.TO",
			Currency:        CurrencyCAD,
			Quantity:        dec("2"),
			MarketValue:     nd("110"),
			DailyChange:     nd("5"),
			AllTimeGainLoss: nd("10"),
		},
	}

	v := Aggregate(holdings, conv)

	// дневное изменение 5*2 = 10 от базы 100
	assert.True(t, v.DailyChange.Equal(dec("10")))
	assert.True(t, v.DailyPercent.Equal(dec("10")))
	assert.True(t, v.AllTimePercent.Equal(dec("10")))
}

func TestAggregate_UnpricedHoldingsCountAsZero(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("1.35")}

	v := Aggregate([]Holding{{Symbol: "NEW", Quantity: dec("3")}}, conv)

	assert.True(t, v.TotalValue.IsZero())
	assert.True(t, v.AllTimePercent.IsZero())
}

func TestConverter_Convert(t *testing.T) {
	conv := Converter{HomeCurrency: CurrencyCAD, Rate: dec("1.4")}

	assert.True(t, conv.Convert(dec("10"), CurrencyCAD).Equal(dec("10")))
	assert.True(t, conv.Convert(dec("10"), CurrencyUSD).Equal(dec("14")))
	assert.True(t, conv.Convert(decimal.Zero, CurrencyUSD).IsZero())
}
