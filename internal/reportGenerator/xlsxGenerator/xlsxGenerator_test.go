package xlsxGenerator

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerate(t *testing.T) {
	data := model.ReportData{
		HomeCurrency: model.CurrencyCAD,
		FXRate:       decimal.RequireFromString("1.35"),
		Portfolios: []model.PortfolioHoldings{
			{
				Portfolio: model.Portfolio{ID: 1, Name: "TFSA"},
				Holdings: []model.Holding{{
					Symbol:        "AAPL",
					Type:          model.HoldingTypeStock,
					Currency:      model.CurrencyUSD,
					Quantity:      decimal.NewFromInt(2),
					PurchasePrice: decimal.NewFromInt(150),
					CurrentPrice:  decimal.NewNullDecimal(decimal.NewFromInt(170)),
				}},
			},
			{Portfolio: model.Portfolio{ID: 2, Name: "RRSP/LIRA"}},
		},
		EODHistory: []model.GlobalSnapshot{{
			SnapshotDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			IsEOD:        true,
		}},
		Sectors: []model.SectorExposure{
			{Sector: "Technology", Value: decimal.NewFromInt(300)},
			{Sector: model.SectorOther, Value: decimal.NewFromInt(100)},
		},
	}

	content, ext, err := New().Generate(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"1. TFSA", "2. RRSP_LIRA", "History", "Sectors"}, f.GetSheetList())

	symbol, err := f.GetCellValue("1. TFSA", "A3")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", symbol)

	date, err := f.GetCellValue("History", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", date)

	sector, err := f.GetCellValue("Sectors", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Technology", sector)
	share, err := f.GetCellValue("Sectors", "C3")
	require.NoError(t, err)
	assert.Equal(t, "75", share)
}

func TestGenerate_Empty(t *testing.T) {
	_, _, err := New().Generate(context.Background(), model.ReportData{})

	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "3. Margin", SheetName(3, "Margin"))
	assert.Equal(t, "1. a_b_c", SheetName(1, "a:b*c"))

	long := SheetName(12, strings.Repeat("x", 40))
	assert.Len(t, []rune(long), 31)
	assert.True(t, strings.HasPrefix(long, "12. xxx"))
}
