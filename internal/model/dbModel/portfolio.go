package dbModel

import "database/sql"

type Portfolio struct {
	ID           int64         `db:"id"`
	Name         string        `db:"name"`
	IsDefault    bool          `db:"is_default"`
	DisplayOrder sql.NullInt32 `db:"display_order"`
}
