package telebotConverter

import (
	"fmt"
	"strings"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/shopspring/decimal"
)

const HelpText = `Commands:
/summary - live totals and latest snapshot
/portfolios - holdings by portfolio
/price SYMBOL - current quote
/refresh - update prices now
/snapshot - take an intraday snapshot now
/eod - take the end of day snapshot
/stale - holdings with outdated prices
/sectors - refresh sector weightings
/budget - monthly budget summary
/budget_add income|expense AMOUNT NAME
/add_portfolio NAME [default]
/add_holding PORTFOLIO SYMBOL stock|etf QTY COST
/delete_holding ID
/report - xlsx report`

func OverviewResponse(o model.Overview) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 Holdings: %d\n", o.HoldingsCount))
	sb.WriteString(fmt.Sprintf("💰 Value: %s %s\n", money(o.Live.TotalValue), o.HomeCurrency))
	sb.WriteString(fmt.Sprintf("   ▸ Day: %s (%s%%)\n", signed(o.Live.DailyChange), signed(o.Live.DailyPercent)))
	sb.WriteString(fmt.Sprintf("   ▸ All time: %s (%s%%)\n", signed(o.Live.AllTimeGain), signed(o.Live.AllTimePercent)))
	sb.WriteString(fmt.Sprintf("💱 FX: %s\n", o.FXRate.StringFixed(4)))

	if o.Latest != nil {
		kind := "intraday"
		if o.Latest.IsEOD {
			kind = "eod"
		}
		sb.WriteString(fmt.Sprintf("\n🕒 Last snapshot (%s) %s: %s %s",
			kind,
			o.Latest.Timestamp.UTC().Format("2006-01-02 15:04 MST"),
			money(o.Latest.TotalValue),
			o.HomeCurrency,
		))
	}

	return sb.String()
}

func PortfoliosResponse(portfolios []model.PortfolioHoldings) string {
	if len(portfolios) == 0 {
		return "No portfolios yet"
	}

	var sb strings.Builder
	for _, p := range portfolios {
		title := p.Name
		if p.IsDefault {
			title += " ⭐"
		}
		sb.WriteString(fmt.Sprintf("📁 %s\n", title))

		if len(p.Holdings) == 0 {
			sb.WriteString("   empty\n\n")
			continue
		}
		for _, h := range p.Holdings {
			sb.WriteString(fmt.Sprintf("   #%d %s × %s", h.ID, h.Symbol, h.Quantity.String()))
			if h.CurrentPrice.Valid {
				sb.WriteString(fmt.Sprintf(" @ %s %s = %s", money(h.CurrentPrice.Decimal), h.Currency, money(h.MarketValue.Decimal)))
			}
			if h.AllTimeChangePercent.Valid {
				sb.WriteString(fmt.Sprintf(" (%s%%)", signed(h.AllTimeChangePercent.Decimal)))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func QuoteResponse(q model.Quote) string {
	var sb strings.Builder
	sb.WriteString(q.Symbol)
	if q.Name != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", q.Name))
	}
	sb.WriteString(fmt.Sprintf("\nPrice: %s %s", money(q.Price.Decimal), q.Currency))
	if q.Change.Valid {
		sb.WriteString(fmt.Sprintf("\nChange: %s", signed(q.Change.Decimal)))
	}
	if q.ChangePercent.Valid {
		sb.WriteString(fmt.Sprintf(" (%s%%)", signed(q.ChangePercent.Decimal)))
	}
	if q.Source != "" {
		sb.WriteString(fmt.Sprintf("\nSource: %s", q.Source))
	}
	return sb.String()
}

func StaleResponse(holdings []model.Holding, threshold time.Duration) string {
	if len(holdings) == 0 {
		return fmt.Sprintf("All prices are fresher than %s ✅", threshold)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ Not updated within %s:\n", threshold))
	for _, h := range holdings {
		updated := "never"
		if h.LastPriceUpdate != nil {
			updated = h.LastPriceUpdate.UTC().Format("2006-01-02 15:04")
		}
		sb.WriteString(fmt.Sprintf("   #%d %s - %s\n", h.ID, h.Symbol, updated))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func BudgetResponse(s model.BudgetSummary, homeCurrency string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💵 Monthly, %s\n", homeCurrency))
	sb.WriteString(fmt.Sprintf("   ▸ Dividends: %s (annual %s)\n", money(s.DividendMonthly), money(s.DividendAnnual)))
	sb.WriteString(fmt.Sprintf("   ▸ Other income: %s\n", money(s.OtherIncome)))
	sb.WriteString(fmt.Sprintf("   ▸ Expenses: %s\n", money(s.Expenses)))
	sb.WriteString(fmt.Sprintf("   ▸ Net surplus: %s\n", signed(s.NetSurplus)))

	if len(s.DividendBreakdown) > 0 {
		sb.WriteString("\nDividends:\n")
		for _, d := range s.DividendBreakdown {
			manual := ""
			if d.IsManual {
				manual = " ✍️"
			}
			sb.WriteString(fmt.Sprintf("   %s: %s/mo%s\n", d.Symbol, money(d.MonthlyHome), manual))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func HoldingAddedResponse(h model.Holding) string {
	text := fmt.Sprintf("Added #%d %s × %s (%s)", h.ID, h.Symbol, h.Quantity.String(), h.Currency)
	if h.CurrentPrice.Valid {
		text += fmt.Sprintf(", price %s", money(h.CurrentPrice.Decimal))
	} else {
		text += ", price pending"
	}
	return text
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
