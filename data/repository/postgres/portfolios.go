package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/finance_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/dbModel"
	"github.com/KotFed0t/finance_tracker/utils"
)

func (r *Postgres) GetPortfolios(ctx context.Context) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, name, is_default, display_order
		FROM portfolios
		ORDER BY display_order NULLS LAST, id`

	slog.Debug("GetPortfolios start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolios failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolios completed", slog.String("rqID", rqID))
		}
	}()

	var rows []dbModel.Portfolio
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	portfolios = make([]model.Portfolio, 0, len(rows))
	for _, row := range rows {
		portfolios = append(portfolios, dbConverter.ConvertPortfolio(row))
	}
	return portfolios, nil
}

func (r *Postgres) GetPortfolioByName(ctx context.Context, name string) (portfolio model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, name, is_default, display_order FROM portfolios WHERE lower(name) = lower($1)`

	slog.Debug("GetPortfolioByName start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolioByName failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolioByName completed", slog.String("rqID", rqID))
		}
	}()

	var row dbModel.Portfolio
	if err = r.txOrDb(ctx).GetContext(ctx, &row, query, name); err != nil {
		return model.Portfolio{}, mapError(err)
	}

	return dbConverter.ConvertPortfolio(row), nil
}

func (r *Postgres) ClearDefaultPortfolio(ctx context.Context) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE portfolios SET is_default = FALSE WHERE is_default`

	slog.Debug("ClearDefaultPortfolio start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("ClearDefaultPortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("ClearDefaultPortfolio completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query)
	return err
}

func (r *Postgres) CreatePortfolio(ctx context.Context, p model.Portfolio) (portfolioID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO portfolios(name, is_default, display_order) VALUES($1, $2, $3) RETURNING id`

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreatePortfolio completed", slog.String("rqID", rqID), slog.Int64("portfolioID", portfolioID))
		}
	}()

	var displayOrder interface{}
	if p.DisplayOrder != nil {
		displayOrder = *p.DisplayOrder
	}

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, p.Name, p.IsDefault, displayOrder).Scan(&portfolioID)
	if err != nil {
		return 0, mapError(err)
	}

	return portfolioID, nil
}
