package dbModel

import "time"

type SectorCache struct {
	Symbol      string    `db:"symbol"`
	Weightings  []byte    `db:"weightings"`
	LastUpdated time.Time `db:"last_updated"`
}

type SectorSymbol struct {
	Symbol string `db:"symbol"`
	IsETF  bool   `db:"is_etf"`
}
