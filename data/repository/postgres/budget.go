package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/finance_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/dbModel"
	"github.com/KotFed0t/finance_tracker/utils"
)

func (r *Postgres) GetBudgetItems(ctx context.Context) (items []model.BudgetItem, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, item_type, name, amount_monthly, category FROM budget_items ORDER BY item_type, id`

	slog.Debug("GetBudgetItems start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetBudgetItems failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetBudgetItems completed", slog.String("rqID", rqID))
		}
	}()

	var rows []dbModel.BudgetItem
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	items = make([]model.BudgetItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dbConverter.ConvertBudgetItem(row))
	}
	return items, nil
}

func (r *Postgres) CreateBudgetItem(ctx context.Context, item model.BudgetItem) (itemID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO budget_items(item_type, name, amount_monthly, category) VALUES($1, $2, $3, $4) RETURNING id`

	slog.Debug("CreateBudgetItem start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("CreateBudgetItem failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateBudgetItem completed", slog.String("rqID", rqID), slog.Int64("itemID", itemID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, string(item.Type), item.Name, item.AmountMonthly, item.Category).Scan(&itemID)
	if err != nil {
		return 0, mapError(err)
	}

	return itemID, nil
}
