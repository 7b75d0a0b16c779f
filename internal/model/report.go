package model

import "github.com/shopspring/decimal"

// ReportData is everything the holdings report renders.
type ReportData struct {
	HomeCurrency string
	FXRate       decimal.Decimal
	Portfolios   []PortfolioHoldings
	Latest       []PortfolioSnapshot
	EODHistory   []GlobalSnapshot
	Sectors      []SectorExposure
}

// Overview is the current state shown by /summary.
type Overview struct {
	HomeCurrency  string
	FXRate        decimal.Decimal
	Live          Valuation
	HoldingsCount int
	Latest        *GlobalSnapshot
}
