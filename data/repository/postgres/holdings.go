package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/data/repository"
	"github.com/KotFed0t/finance_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/dbModel"
	"github.com/KotFed0t/finance_tracker/utils"
)

const holdingColumns = `id, portfolio_id, symbol, type, quantity, purchase_price, currency,
	current_price, daily_change, daily_change_percent, market_value,
	all_time_gain_loss, all_time_change_percent, dividend_annual_per_share,
	is_dividend_manual, last_price_update`

func (r *Postgres) GetHoldings(ctx context.Context) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT ` + holdingColumns + ` FROM holdings ORDER BY portfolio_id, id`

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID), slog.Int("count", len(holdings)))
		}
	}()

	return r.selectHoldings(ctx, query)
}

// LockHoldings reads all holdings with a row lock. Must be called within a transaction.
func (r *Postgres) LockHoldings(ctx context.Context) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT ` + holdingColumns + ` FROM holdings ORDER BY id FOR UPDATE`

	slog.Debug("LockHoldings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("LockHoldings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("LockHoldings completed", slog.String("rqID", rqID), slog.Int("count", len(holdings)))
		}
	}()

	return r.selectHoldings(ctx, query)
}

func (r *Postgres) GetStaleHoldings(ctx context.Context, cutoff time.Time) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT ` + holdingColumns + ` FROM holdings
		WHERE last_price_update IS NULL OR last_price_update < $1
		ORDER BY last_price_update NULLS FIRST, id`

	slog.Debug("GetStaleHoldings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetStaleHoldings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStaleHoldings completed", slog.String("rqID", rqID), slog.Int("count", len(holdings)))
		}
	}()

	return r.selectHoldings(ctx, query, cutoff)
}

func (r *Postgres) selectHoldings(ctx context.Context, query string, args ...interface{}) ([]model.Holding, error) {
	var rows []dbModel.Holding
	if err := r.txOrDb(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	holdings := make([]model.Holding, 0, len(rows))
	for _, row := range rows {
		holdings = append(holdings, dbConverter.ConvertHolding(row))
	}
	return holdings, nil
}

// UpdateHoldingValuations persists the quote-derived fields of the given holdings.
func (r *Postgres) UpdateHoldingValuations(ctx context.Context, holdings []model.Holding) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE holdings SET
			current_price = $1,
			daily_change = $2,
			daily_change_percent = $3,
			market_value = $4,
			all_time_gain_loss = $5,
			all_time_change_percent = $6,
			dividend_annual_per_share = $7,
			last_price_update = $8
		WHERE id = $9`

	slog.Debug("UpdateHoldingValuations start", slog.String("rqID", rqID), slog.String("query", query), slog.Int("count", len(holdings)))
	defer func() {
		if err != nil {
			slog.Error("UpdateHoldingValuations failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateHoldingValuations completed", slog.String("rqID", rqID))
		}
	}()

	q := r.txOrDb(ctx)
	for _, h := range holdings {
		var lastUpdate sql.NullTime
		if h.LastPriceUpdate != nil {
			lastUpdate = sql.NullTime{Time: *h.LastPriceUpdate, Valid: true}
		}

		_, err = q.ExecContext(ctx, query,
			h.CurrentPrice,
			h.DailyChange,
			h.DailyChangePercent,
			h.MarketValue,
			h.AllTimeGainLoss,
			h.AllTimeChangePercent,
			h.DividendAnnualPerShare,
			lastUpdate,
			h.ID,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Postgres) CreateHolding(ctx context.Context, h model.Holding) (holdingID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO holdings(
			portfolio_id, symbol, type, quantity, purchase_price, currency,
			current_price, daily_change, daily_change_percent, market_value,
			all_time_gain_loss, all_time_change_percent, dividend_annual_per_share,
			is_dividend_manual, last_price_update)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	slog.Debug("CreateHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("CreateHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateHolding completed", slog.String("rqID", rqID), slog.Int64("holdingID", holdingID))
		}
	}()

	var lastUpdate sql.NullTime
	if h.LastPriceUpdate != nil {
		lastUpdate = sql.NullTime{Time: *h.LastPriceUpdate, Valid: true}
	}

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query,
		h.PortfolioID,
		h.Symbol,
		string(h.Type),
		h.Quantity,
		h.PurchasePrice,
		h.Currency,
		h.CurrentPrice,
		h.DailyChange,
		h.DailyChangePercent,
		h.MarketValue,
		h.AllTimeGainLoss,
		h.AllTimeChangePercent,
		h.DividendAnnualPerShare,
		h.IsDividendManual,
		lastUpdate,
	).Scan(&holdingID)
	if err != nil {
		return 0, mapError(err)
	}

	return holdingID, nil
}

func (r *Postgres) CreateUnderlyings(ctx context.Context, holdingID int64, underlyings []model.Underlying) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO underlying_holdings(holding_id, symbol, allocation_percent) VALUES($1, $2, $3)`

	slog.Debug("CreateUnderlyings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("CreateUnderlyings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateUnderlyings completed", slog.String("rqID", rqID))
		}
	}()

	q := r.txOrDb(ctx)
	for _, u := range underlyings {
		if _, err = q.ExecContext(ctx, query, holdingID, u.Symbol, u.AllocationPercent); err != nil {
			return err
		}
	}

	return nil
}

func (r *Postgres) GetUnderlyings(ctx context.Context) (underlyings []model.Underlying, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, holding_id, symbol, allocation_percent FROM underlying_holdings ORDER BY holding_id, id`

	slog.Debug("GetUnderlyings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetUnderlyings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetUnderlyings completed", slog.String("rqID", rqID))
		}
	}()

	var rows []dbModel.Underlying
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	underlyings = make([]model.Underlying, 0, len(rows))
	for _, row := range rows {
		underlyings = append(underlyings, dbConverter.ConvertUnderlying(row))
	}
	return underlyings, nil
}

// DeleteHolding removes the holding. Underlyings go with it through the FK cascade.
func (r *Postgres) DeleteHolding(ctx context.Context, holdingID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `DELETE FROM holdings WHERE id = $1`

	slog.Debug("DeleteHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("DeleteHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteHolding completed", slog.String("rqID", rqID))
		}
	}()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, holdingID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
