package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

const SectorOther = "Other"

type SectorWeighting struct {
	Sector string          `json:"sector"`
	Weight decimal.Decimal `json:"weight"`
}

// SectorSymbol is a symbol whose sector composition should be refreshed.
type SectorSymbol struct {
	Symbol string
	IsETF  bool
}

func OtherSector() []SectorWeighting {
	return []SectorWeighting{{Sector: SectorOther, Weight: decimal.NewFromInt(1)}}
}

// NormalizeWeightings rescales raw weights so they sum to one, dropping unnamed sectors.
func NormalizeWeightings(raw []SectorWeighting) []SectorWeighting {
	total := decimal.Zero
	for _, w := range raw {
		if w.Sector != "" {
			total = total.Add(w.Weight)
		}
	}
	if !total.IsPositive() {
		return nil
	}

	res := make([]SectorWeighting, 0, len(raw))
	for _, w := range raw {
		if w.Sector == "" {
			continue
		}
		res = append(res, SectorWeighting{Sector: w.Sector, Weight: w.Weight.Div(total).Round(6)})
	}
	return res
}

type SectorExposure struct {
	Sector string
	Value  decimal.Decimal
}

// SectorExposures estimates home-currency exposure per sector. Holdings without
// known weightings are reported as Other.
func SectorExposures(holdings []Holding, weightings map[string][]SectorWeighting, conv Converter) []SectorExposure {
	bySector := make(map[string]decimal.Decimal)

	for _, h := range holdings {
		if !h.MarketValue.Valid {
			continue
		}
		currency := h.Currency
		if currency == "" {
			currency = CurrencyForSymbol(h.Symbol)
		}
		value := conv.Convert(h.MarketValue.Decimal, currency)

		ws, ok := weightings[h.Symbol]
		if !ok || len(ws) == 0 {
			ws = OtherSector()
		}
		for _, w := range ws {
			bySector[w.Sector] = bySector[w.Sector].Add(value.Mul(w.Weight))
		}
	}

	res := make([]SectorExposure, 0, len(bySector))
	for sector, value := range bySector {
		res = append(res, SectorExposure{Sector: sector, Value: value})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Value.Equal(res[j].Value) {
			return res[i].Sector < res[j].Sector
		}
		return res[i].Value.GreaterThan(res[j].Value)
	})
	return res
}
