package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a best-effort market quote. Any field may be null when the provider
// had no data for the symbol.
type Quote struct {
	Symbol        string
	Price         decimal.NullDecimal
	Change        decimal.NullDecimal
	ChangePercent decimal.NullDecimal

	Open           decimal.NullDecimal
	PreviousClose  decimal.NullDecimal
	DayHigh        decimal.NullDecimal
	DayLow         decimal.NullDecimal
	Volume         int64
	Name           string
	Currency       string
	DividendAnnual decimal.NullDecimal
	Source         string
	AsOf           time.Time
}

func EmptyQuote(symbol string) Quote {
	return Quote{Symbol: symbol}
}

func (q Quote) HasPrice() bool {
	return q.Price.Valid
}
