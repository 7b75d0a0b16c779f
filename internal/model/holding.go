package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type HoldingType string

const (
	HoldingTypeStock HoldingType = "stock"
	HoldingTypeETF   HoldingType = "etf"
)

func ParseHoldingType(s string) (HoldingType, bool) {
	switch HoldingType(s) {
	case HoldingTypeStock, HoldingTypeETF:
		return HoldingType(s), true
	default:
		return "", false
	}
}

var hundred = decimal.NewFromInt(100)

// StorageScale matches the NUMERIC(..., 6) columns of holdings.
const StorageScale int32 = 6

type Holding struct {
	ID            int64
	PortfolioID   int64
	Symbol        string
	Type          HoldingType
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	Currency      string

	CurrentPrice         decimal.NullDecimal
	DailyChange          decimal.NullDecimal
	DailyChangePercent   decimal.NullDecimal
	MarketValue          decimal.NullDecimal
	AllTimeGainLoss      decimal.NullDecimal
	AllTimeChangePercent decimal.NullDecimal
	LastPriceUpdate      *time.Time

	DividendAnnualPerShare decimal.NullDecimal
	IsDividendManual       bool

	Underlyings []Underlying
}

// Underlying is a synthetic component of an ETF holding.
type Underlying struct {
	ID                int64
	HoldingID         int64
	Symbol            string
	AllocationPercent decimal.NullDecimal
}

// NewHolding carries the user supplied part of a holding.
type NewHolding struct {
	PortfolioID   int64
	Symbol        string
	Type          HoldingType
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	Underlyings   []Underlying
}

// ApplyQuote merges a fetched quote into the holding and recomputes every
// derived field. It reports false and leaves h untouched when the quote has no price.
//
// All values are rounded to StorageScale and derived from the rounded price.
func ApplyQuote(h *Holding, q Quote, now time.Time) bool {
	if !q.Price.Valid {
		return false
	}

	price := q.Price.Decimal.Round(StorageScale)
	h.CurrentPrice = decimal.NewNullDecimal(price)
	h.DailyChange = roundNull(q.Change)
	h.DailyChangePercent = roundNull(q.ChangePercent)
	h.MarketValue = decimal.NewNullDecimal(price.Mul(h.Quantity).Round(StorageScale))
	h.AllTimeGainLoss = decimal.NewNullDecimal(price.Sub(h.PurchasePrice).Mul(h.Quantity).Round(StorageScale))

	costBasis := h.PurchasePrice.Mul(h.Quantity)
	if costBasis.IsZero() {
		h.AllTimeChangePercent = decimal.NullDecimal{}
	} else {
		h.AllTimeChangePercent = decimal.NewNullDecimal(h.AllTimeGainLoss.Decimal.Div(costBasis).Mul(hundred).Round(StorageScale))
	}

	if !h.IsDividendManual && q.DividendAnnual.Valid {
		h.DividendAnnualPerShare = roundNull(q.DividendAnnual)
	}

	updatedAt := now
	h.LastPriceUpdate = &updatedAt

	return true
}

// IsStale reports whether the holding was never priced or was priced before the cutoff.
func (h Holding) IsStale(cutoff time.Time) bool {
	return h.LastPriceUpdate == nil || h.LastPriceUpdate.Before(cutoff)
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(StorageScale))
}
