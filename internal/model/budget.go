package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

type BudgetItemType string

const (
	BudgetItemIncome  BudgetItemType = "income"
	BudgetItemExpense BudgetItemType = "expense"
)

type BudgetItem struct {
	ID            int64
	Type          BudgetItemType
	Name          string
	AmountMonthly decimal.Decimal
	Category      string
}

type DividendBreakdownItem struct {
	HoldingID              int64
	Symbol                 string
	Quantity               decimal.Decimal
	DividendAnnualPerShare decimal.Decimal
	AnnualHome             decimal.Decimal
	MonthlyHome            decimal.Decimal
	IsManual               bool
}

type BudgetSummary struct {
	DividendMonthly   decimal.Decimal
	DividendAnnual    decimal.Decimal
	DividendBreakdown []DividendBreakdownItem
	OtherIncome       decimal.Decimal
	Expenses          decimal.Decimal
	TotalIncome       decimal.Decimal
	NetSurplus        decimal.Decimal
	IncomeItems       []BudgetItem
	ExpenseItems      []BudgetItem
}

var twelve = decimal.NewFromInt(12)

// SummarizeBudget rolls budget items and projected dividends into monthly totals.
func SummarizeBudget(items []BudgetItem, holdings []Holding, conv Converter) BudgetSummary {
	var s BudgetSummary

	for _, h := range holdings {
		if !h.DividendAnnualPerShare.Valid || h.DividendAnnualPerShare.Decimal.IsZero() {
			continue
		}

		currency := h.Currency
		if currency == "" {
			currency = CurrencyForSymbol(h.Symbol)
		}

		annual := conv.Convert(h.DividendAnnualPerShare.Decimal.Mul(h.Quantity), currency)
		monthly := annual.Div(twelve)

		s.DividendAnnual = s.DividendAnnual.Add(annual)
		s.DividendMonthly = s.DividendMonthly.Add(monthly)
		s.DividendBreakdown = append(s.DividendBreakdown, DividendBreakdownItem{
			HoldingID:              h.ID,
			Symbol:                 h.Symbol,
			Quantity:               h.Quantity,
			DividendAnnualPerShare: h.DividendAnnualPerShare.Decimal,
			AnnualHome:             annual.Round(2),
			MonthlyHome:            monthly.Round(2),
			IsManual:               h.IsDividendManual,
		})
	}

	sort.SliceStable(s.DividendBreakdown, func(i, j int) bool {
		return s.DividendBreakdown[i].MonthlyHome.GreaterThan(s.DividendBreakdown[j].MonthlyHome)
	})

	for _, item := range items {
		switch item.Type {
		case BudgetItemIncome:
			s.OtherIncome = s.OtherIncome.Add(item.AmountMonthly)
			s.IncomeItems = append(s.IncomeItems, item)
		case BudgetItemExpense:
			s.Expenses = s.Expenses.Add(item.AmountMonthly)
			s.ExpenseItems = append(s.ExpenseItems, item)
		}
	}

	s.TotalIncome = s.DividendMonthly.Add(s.OtherIncome)
	s.NetSurplus = s.TotalIncome.Sub(s.Expenses)

	s.DividendMonthly = s.DividendMonthly.Round(2)
	s.DividendAnnual = s.DividendAnnual.Round(2)
	s.TotalIncome = s.TotalIncome.Round(2)
	s.NetSurplus = s.NetSurplus.Round(2)

	return s
}
