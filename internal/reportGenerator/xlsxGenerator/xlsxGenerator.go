package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	maxSheetNameLen = 31
	historySheet    = "History"
	sectorsSheet    = "Sectors"
	defaultSheet    = "Sheet1"
)

var ErrEmptyReport = errors.New("empty report")

var holdingHeaders = []string{
	"symbol", "type", "currency", "quantity", "cost", "price",
	"day change", "day change %", "market value", "gain", "gain %", "dividend/share", "updated",
}

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, data model.ReportData) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(data.Portfolios) == 0 {
		return nil, "", ErrEmptyReport
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	latest := make(map[int64]model.PortfolioSnapshot, len(data.Latest))
	for _, s := range data.Latest {
		latest[s.PortfolioID] = s
	}

	for i, p := range data.Portfolios {
		snapshot, ok := latest[p.ID]
		var snapshotPtr *model.PortfolioSnapshot
		if ok {
			snapshotPtr = &snapshot
		}
		if err = g.fillPortfolioSheet(f, p, snapshotPtr, i+1); err != nil {
			slog.Error("failed to fill portfolio sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	if err = g.fillHistorySheet(f, data); err != nil {
		return nil, "", err
	}

	if err = g.fillSectorsSheet(f, data); err != nil {
		return nil, "", err
	}

	// Удаляем лист по умолчанию "Sheet1"
	if err := f.DeleteSheet(defaultSheet); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillPortfolioSheet(f *excelize.File, p model.PortfolioHoldings, snapshot *model.PortfolioSnapshot, ordinal int) error {
	sheetName := SheetName(ordinal, p.Name)
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("new sheet %q: %w", sheetName, err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(holdingHeaders))
	if err := g.sectionHeader(f, sheetName, "A1", lastCol+"1", "Holdings", "#cfe2f3"); err != nil {
		return err
	}

	for i, h := range holdingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellStr(sheetName, cell, h)
	}

	row := 3
	for _, h := range p.Holdings {
		values := []any{
			h.Symbol,
			string(h.Type),
			h.Currency,
			h.Quantity.InexactFloat64(),
			h.PurchasePrice.InexactFloat64(),
			nullFloat(h.CurrentPrice),
			nullFloat(h.DailyChange),
			nullFloat(h.DailyChangePercent),
			nullFloat(h.MarketValue),
			nullFloat(h.AllTimeGainLoss),
			nullFloat(h.AllTimeChangePercent),
			nullFloat(h.DividendAnnualPerShare),
			nil,
		}
		if h.LastPriceUpdate != nil {
			values[len(values)-1] = h.LastPriceUpdate.UTC().Format(time.RFC3339)
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("set row %d: %w", row, err)
		}
		row++
	}

	if snapshot == nil {
		return nil
	}

	row += 2
	if err := g.sectionHeader(f, sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), "Latest snapshot", "#d9ead3"); err != nil {
		return err
	}
	row++
	_ = f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &[]any{"time", "total value", "day change", "day change %", "gain", "gain %"})
	row++
	return f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &[]any{
		snapshot.Timestamp.UTC().Format(time.RFC3339),
		snapshot.TotalValue.InexactFloat64(),
		snapshot.DailyChange.InexactFloat64(),
		snapshot.DailyPercent.Round(2).InexactFloat64(),
		snapshot.AllTimeGain.InexactFloat64(),
		snapshot.AllTimePercent.Round(2).InexactFloat64(),
	})
}

func (g *XLSXGenerator) fillHistorySheet(f *excelize.File, data model.ReportData) error {
	if _, err := f.NewSheet(historySheet); err != nil {
		return err
	}

	if err := g.sectionHeader(f, historySheet, "A1", "F1", fmt.Sprintf("End of day, %s", data.HomeCurrency), "#f9cb9c"); err != nil {
		return err
	}
	_ = f.SetSheetRow(historySheet, "A2", &[]any{"date", "total value", "day change", "day change %", "gain", "gain %"})

	for i, s := range data.EODHistory {
		err := f.SetSheetRow(historySheet, fmt.Sprintf("A%d", i+3), &[]any{
			s.SnapshotDate.Format(time.DateOnly),
			s.TotalValue.InexactFloat64(),
			s.DailyChange.InexactFloat64(),
			s.DailyPercent.Round(2).InexactFloat64(),
			s.AllTimeGain.InexactFloat64(),
			s.AllTimePercent.Round(2).InexactFloat64(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *XLSXGenerator) fillSectorsSheet(f *excelize.File, data model.ReportData) error {
	if _, err := f.NewSheet(sectorsSheet); err != nil {
		return err
	}

	if err := g.sectionHeader(f, sectorsSheet, "A1", "C1", "Sector exposure", "#f4cccc"); err != nil {
		return err
	}
	_ = f.SetSheetRow(sectorsSheet, "A2", &[]any{"sector", "value", "share %"})

	total := decimal.Zero
	for _, s := range data.Sectors {
		total = total.Add(s.Value)
	}

	for i, s := range data.Sectors {
		share := decimal.Zero
		if total.IsPositive() {
			share = s.Value.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		err := f.SetSheetRow(sectorsSheet, fmt.Sprintf("A%d", i+3), &[]any{
			s.Sector,
			s.Value.Round(2).InexactFloat64(),
			share.InexactFloat64(),
		})
		if err != nil {
			return err
		}
	}

	row := len(data.Sectors) + 4
	_ = f.SetCellStr(sectorsSheet, fmt.Sprintf("A%d", row), "fx rate")
	_ = f.SetCellValue(sectorsSheet, fmt.Sprintf("B%d", row), data.FXRate.InexactFloat64())
	return nil
}

func (g *XLSXGenerator) sectionHeader(f *excelize.File, sheet, from, to, title, color string) error {
	if err := f.MergeCell(sheet, from, to); err != nil {
		return err
	}
	_ = f.SetCellStr(sheet, from, title)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, from, from, styleID); err != nil {
		return fmt.Errorf("ошибка применения стиля: %w", err)
	}
	return nil
}

// SheetName builds a unique excel-safe sheet title.
func SheetName(ordinal int, name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)

	res := fmt.Sprintf("%d. %s", ordinal, name)
	if runes := []rune(res); len(runes) > maxSheetNameLen {
		res = string(runes[:maxSheetNameLen])
	}
	return res
}

func nullFloat(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
