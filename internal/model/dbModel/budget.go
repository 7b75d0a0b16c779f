package dbModel

import "github.com/shopspring/decimal"

type BudgetItem struct {
	ID            int64           `db:"id"`
	ItemType      string          `db:"item_type"`
	Name          string          `db:"name"`
	AmountMonthly decimal.Decimal `db:"amount_monthly"`
	Category      string          `db:"category"`
}
