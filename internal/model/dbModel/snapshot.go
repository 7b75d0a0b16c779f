package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioSnapshot struct {
	ID             int64           `db:"id"`
	PortfolioID    int64           `db:"portfolio_id"`
	Timestamp      time.Time       `db:"ts"`
	TotalValue     decimal.Decimal `db:"total_value"`
	DailyChange    decimal.Decimal `db:"daily_change"`
	DailyPercent   decimal.Decimal `db:"daily_percent"`
	AllTimeGain    decimal.Decimal `db:"all_time_gain"`
	AllTimePercent decimal.Decimal `db:"all_time_percent"`
}

type GlobalSnapshot struct {
	ID             int64           `db:"id"`
	Timestamp      time.Time       `db:"ts"`
	SnapshotDate   time.Time       `db:"snapshot_date"`
	IsEOD          bool            `db:"is_eod"`
	TotalValue     decimal.Decimal `db:"total_value"`
	DailyChange    decimal.Decimal `db:"daily_change"`
	DailyPercent   decimal.Decimal `db:"daily_percent"`
	AllTimeGain    decimal.Decimal `db:"all_time_gain"`
	AllTimePercent decimal.Decimal `db:"all_time_percent"`
}
