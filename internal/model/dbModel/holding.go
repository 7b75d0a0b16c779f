package dbModel

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Holding struct {
	ID                     int64               `db:"id"`
	PortfolioID            int64               `db:"portfolio_id"`
	Symbol                 string              `db:"symbol"`
	Type                   string              `db:"type"`
	Quantity               decimal.Decimal     `db:"quantity"`
	PurchasePrice          decimal.Decimal     `db:"purchase_price"`
	Currency               string              `db:"currency"`
	CurrentPrice           decimal.NullDecimal `db:"current_price"`
	DailyChange            decimal.NullDecimal `db:"daily_change"`
	DailyChangePercent     decimal.NullDecimal `db:"daily_change_percent"`
	MarketValue            decimal.NullDecimal `db:"market_value"`
	AllTimeGainLoss        decimal.NullDecimal `db:"all_time_gain_loss"`
	AllTimeChangePercent   decimal.NullDecimal `db:"all_time_change_percent"`
	DividendAnnualPerShare decimal.NullDecimal `db:"dividend_annual_per_share"`
	IsDividendManual       bool                `db:"is_dividend_manual"`
	LastPriceUpdate        sql.NullTime        `db:"last_price_update"`
}

type Underlying struct {
	ID                int64               `db:"id"`
	HoldingID         int64               `db:"holding_id"`
	Symbol            string              `db:"symbol"`
	AllocationPercent decimal.NullDecimal `db:"allocation_percent"`
}
