package sectorConverter

import (
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/fmpModel"
	"github.com/KotFed0t/finance_tracker/internal/model/yahooModel"
	"github.com/shopspring/decimal"
)

// yahoo отдает ключи секторов в своем формате
var yahooSectorNames = map[string]string{
	"realestate":             "Real Estate",
	"consumer_cyclical":      "Consumer Cyclical",
	"basic_materials":        "Basic Materials",
	"consumer_defensive":     "Consumer Defensive",
	"technology":             "Technology",
	"communication_services": "Communication Services",
	"financial_services":     "Financial Services",
	"utilities":              "Utilities",
	"industrials":            "Industrials",
	"energy":                 "Energy",
	"healthcare":             "Healthcare",
}

func FromFmpEtfWeightings(raw []fmpModel.EtfSectorWeighting) []model.SectorWeighting {
	ws := make([]model.SectorWeighting, 0, len(raw))
	for _, w := range raw {
		ws = append(ws, model.SectorWeighting{Sector: w.Sector, Weight: decimal.NewFromFloat(w.WeightPercentage)})
	}
	return model.NormalizeWeightings(ws)
}

func FromFmpProfile(profile fmpModel.Profile) []model.SectorWeighting {
	if profile.Sector == "" {
		return nil
	}
	return []model.SectorWeighting{{Sector: profile.Sector, Weight: decimal.NewFromInt(1)}}
}

// FromYahooSummary prefers fund sector weightings and falls back to the company sector.
func FromYahooSummary(summary yahooModel.QuoteSummaryResult) []model.SectorWeighting {
	if summary.TopHoldings != nil && len(summary.TopHoldings.SectorWeightings) > 0 {
		ws := make([]model.SectorWeighting, 0, len(summary.TopHoldings.SectorWeightings))
		for _, entry := range summary.TopHoldings.SectorWeightings {
			for key, value := range entry {
				name, ok := yahooSectorNames[key]
				if !ok {
					name = key
				}
				ws = append(ws, model.SectorWeighting{Sector: name, Weight: decimal.NewFromFloat(value.Raw)})
			}
		}
		if normalized := model.NormalizeWeightings(ws); len(normalized) > 0 {
			return normalized
		}
	}

	if summary.AssetProfile != nil && summary.AssetProfile.Sector != "" {
		return []model.SectorWeighting{{Sector: summary.AssetProfile.Sector, Weight: decimal.NewFromInt(1)}}
	}

	return nil
}
