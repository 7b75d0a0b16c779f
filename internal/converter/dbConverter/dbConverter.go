package dbConverter

import (
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/dbModel"
)

func ConvertHolding(dbHolding dbModel.Holding) model.Holding {
	h := model.Holding{
		ID:                     dbHolding.ID,
		PortfolioID:            dbHolding.PortfolioID,
		Symbol:                 dbHolding.Symbol,
		Type:                   model.HoldingType(dbHolding.Type),
		Quantity:               dbHolding.Quantity,
		PurchasePrice:          dbHolding.PurchasePrice,
		Currency:               dbHolding.Currency,
		CurrentPrice:           dbHolding.CurrentPrice,
		DailyChange:            dbHolding.DailyChange,
		DailyChangePercent:     dbHolding.DailyChangePercent,
		MarketValue:            dbHolding.MarketValue,
		AllTimeGainLoss:        dbHolding.AllTimeGainLoss,
		AllTimeChangePercent:   dbHolding.AllTimeChangePercent,
		DividendAnnualPerShare: dbHolding.DividendAnnualPerShare,
		IsDividendManual:       dbHolding.IsDividendManual,
	}

	if dbHolding.LastPriceUpdate.Valid {
		t := dbHolding.LastPriceUpdate.Time
		h.LastPriceUpdate = &t
	}

	return h
}

func ConvertUnderlying(dbUnderlying dbModel.Underlying) model.Underlying {
	return model.Underlying{
		ID:                dbUnderlying.ID,
		HoldingID:         dbUnderlying.HoldingID,
		Symbol:            dbUnderlying.Symbol,
		AllocationPercent: dbUnderlying.AllocationPercent,
	}
}

func ConvertPortfolio(dbPortfolio dbModel.Portfolio) model.Portfolio {
	p := model.Portfolio{
		ID:        dbPortfolio.ID,
		Name:      dbPortfolio.Name,
		IsDefault: dbPortfolio.IsDefault,
	}

	if dbPortfolio.DisplayOrder.Valid {
		order := int(dbPortfolio.DisplayOrder.Int32)
		p.DisplayOrder = &order
	}

	return p
}

func ConvertPortfolioSnapshot(dbSnapshot dbModel.PortfolioSnapshot) model.PortfolioSnapshot {
	return model.PortfolioSnapshot{
		ID:          dbSnapshot.ID,
		PortfolioID: dbSnapshot.PortfolioID,
		Timestamp:   dbSnapshot.Timestamp,
		Valuation: model.Valuation{
			TotalValue:     dbSnapshot.TotalValue,
			DailyChange:    dbSnapshot.DailyChange,
			DailyPercent:   dbSnapshot.DailyPercent,
			AllTimeGain:    dbSnapshot.AllTimeGain,
			AllTimePercent: dbSnapshot.AllTimePercent,
		},
	}
}

func ConvertGlobalSnapshot(dbSnapshot dbModel.GlobalSnapshot) model.GlobalSnapshot {
	return model.GlobalSnapshot{
		ID:           dbSnapshot.ID,
		Timestamp:    dbSnapshot.Timestamp,
		SnapshotDate: dbSnapshot.SnapshotDate,
		IsEOD:        dbSnapshot.IsEOD,
		Valuation: model.Valuation{
			TotalValue:     dbSnapshot.TotalValue,
			DailyChange:    dbSnapshot.DailyChange,
			DailyPercent:   dbSnapshot.DailyPercent,
			AllTimeGain:    dbSnapshot.AllTimeGain,
			AllTimePercent: dbSnapshot.AllTimePercent,
		},
	}
}

func ConvertBudgetItem(dbItem dbModel.BudgetItem) model.BudgetItem {
	return model.BudgetItem{
		ID:            dbItem.ID,
		Type:          model.BudgetItemType(dbItem.ItemType),
		Name:          dbItem.Name,
		AmountMonthly: dbItem.AmountMonthly,
		Category:      dbItem.Category,
	}
}
