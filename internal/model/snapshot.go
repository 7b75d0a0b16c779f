package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valuation is a rollup already converted to the home currency.
type Valuation struct {
	TotalValue     decimal.Decimal
	DailyChange    decimal.Decimal
	DailyPercent   decimal.Decimal
	AllTimeGain    decimal.Decimal
	AllTimePercent decimal.Decimal
}

type PortfolioSnapshot struct {
	ID          int64
	PortfolioID int64
	Timestamp   time.Time
	Valuation
}

type GlobalSnapshot struct {
	ID           int64
	Timestamp    time.Time
	SnapshotDate time.Time
	IsEOD        bool
	Valuation
}

// Converter converts native amounts into the home currency at a single rate.
type Converter struct {
	HomeCurrency string
	Rate         decimal.Decimal
}

func (c Converter) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == c.HomeCurrency {
		return amount
	}
	return amount.Mul(c.Rate)
}

// Aggregate sums holdings into a valuation. Missing holding fields count as zero,
// percentages fall back to zero when the reference value is not positive.
func Aggregate(holdings []Holding, conv Converter) Valuation {
	var v Valuation

	for _, h := range holdings {
		currency := h.Currency
		if currency == "" {
			currency = CurrencyForSymbol(h.Symbol)
		}

		marketValue := h.MarketValue.Decimal
		dailyChange := h.DailyChange.Decimal.Mul(h.Quantity)
		gain := h.AllTimeGainLoss.Decimal

		v.TotalValue = v.TotalValue.Add(conv.Convert(marketValue, currency))
		v.DailyChange = v.DailyChange.Add(conv.Convert(dailyChange, currency))
		v.AllTimeGain = v.AllTimeGain.Add(conv.Convert(gain, currency))
	}

	v.DailyPercent = percentOfBase(v.DailyChange, v.TotalValue.Sub(v.DailyChange))
	v.AllTimePercent = percentOfBase(v.AllTimeGain, v.TotalValue.Sub(v.AllTimeGain))

	return v
}

func percentOfBase(delta, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return delta.Div(base).Mul(hundred)
}
