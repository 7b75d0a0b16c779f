package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/dbModel"
	"github.com/KotFed0t/finance_tracker/utils"
)

// GetSectorSymbols returns holding symbols with their ETF flag plus underlying symbols as stocks.
func (r *Postgres) GetSectorSymbols(ctx context.Context) (symbols []model.SectorSymbol, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT symbol, bool_or(is_etf) AS is_etf FROM (
			SELECT upper(symbol) AS symbol, type = 'etf' AS is_etf FROM holdings
			UNION ALL
			SELECT upper(symbol) AS symbol, FALSE AS is_etf FROM underlying_holdings
		) s
		GROUP BY symbol
		ORDER BY symbol`

	slog.Debug("GetSectorSymbols start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetSectorSymbols failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSectorSymbols completed", slog.String("rqID", rqID), slog.Int("count", len(symbols)))
		}
	}()

	var rows []dbModel.SectorSymbol
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	symbols = make([]model.SectorSymbol, 0, len(rows))
	for _, row := range rows {
		symbols = append(symbols, model.SectorSymbol{Symbol: row.Symbol, IsETF: row.IsETF})
	}
	return symbols, nil
}

func (r *Postgres) UpsertSectorWeightings(ctx context.Context, symbol string, weightings []model.SectorWeighting, updatedAt time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO symbol_sector_cache(symbol, weightings, last_updated) VALUES($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET weightings = EXCLUDED.weightings, last_updated = EXCLUDED.last_updated`

	slog.Debug("UpsertSectorWeightings start", slog.String("rqID", rqID), slog.String("query", query), slog.String("symbol", symbol))
	defer func() {
		if err != nil {
			slog.Error("UpsertSectorWeightings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertSectorWeightings completed", slog.String("rqID", rqID))
		}
	}()

	raw, err := json.Marshal(weightings)
	if err != nil {
		return fmt.Errorf("marshal weightings: %w", err)
	}

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, symbol, raw, updatedAt)
	return err
}

func (r *Postgres) GetSectorWeightings(ctx context.Context) (weightings map[string][]model.SectorWeighting, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT symbol, weightings, last_updated FROM symbol_sector_cache`

	slog.Debug("GetSectorWeightings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetSectorWeightings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSectorWeightings completed", slog.String("rqID", rqID))
		}
	}()

	var rows []dbModel.SectorCache
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	weightings = make(map[string][]model.SectorWeighting, len(rows))
	for _, row := range rows {
		var ws []model.SectorWeighting
		if err = json.Unmarshal(row.Weightings, &ws); err != nil {
			return nil, fmt.Errorf("unmarshal weightings of %s: %w", row.Symbol, err)
		}
		weightings[row.Symbol] = ws
	}
	return weightings, nil
}
