package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/dbModel"
	"github.com/KotFed0t/finance_tracker/utils"
)

func (r *Postgres) InsertPortfolioSnapshots(ctx context.Context, snapshots []model.PortfolioSnapshot) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO portfolio_snapshots(
			portfolio_id, ts, total_value, daily_change, daily_percent, all_time_gain, all_time_percent)
		VALUES(:portfolio_id, :ts, :total_value, :daily_change, :daily_percent, :all_time_gain, :all_time_percent)`

	slog.Debug("InsertPortfolioSnapshots start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertPortfolioSnapshots failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertPortfolioSnapshots completed", slog.String("rqID", rqID), slog.Int("count", len(snapshots)))
		}
	}()

	if len(snapshots) == 0 {
		return nil
	}

	rows := make([]dbModel.PortfolioSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, dbModel.PortfolioSnapshot{
			PortfolioID:    s.PortfolioID,
			Timestamp:      s.Timestamp,
			TotalValue:     s.TotalValue,
			DailyChange:    s.DailyChange,
			DailyPercent:   s.DailyPercent,
			AllTimeGain:    s.AllTimeGain,
			AllTimePercent: s.AllTimePercent,
		})
	}

	_, err = r.txOrDb(ctx).NamedExecContext(ctx, query, rows)
	return err
}

// InsertGlobalSnapshot returns repository.ErrAlreadyExists when an EOD row for the same date exists.
func (r *Postgres) InsertGlobalSnapshot(ctx context.Context, s model.GlobalSnapshot) (snapshotID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO global_snapshots(
			ts, snapshot_date, is_eod, total_value, daily_change, daily_percent, all_time_gain, all_time_percent)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	slog.Debug("InsertGlobalSnapshot start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertGlobalSnapshot failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertGlobalSnapshot completed", slog.String("rqID", rqID), slog.Int64("snapshotID", snapshotID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query,
		s.Timestamp,
		s.SnapshotDate.Format(time.DateOnly),
		s.IsEOD,
		s.TotalValue,
		s.DailyChange,
		s.DailyPercent,
		s.AllTimeGain,
		s.AllTimePercent,
	).Scan(&snapshotID)
	if err != nil {
		return 0, mapError(err)
	}

	return snapshotID, nil
}

func (r *Postgres) EODSnapshotExists(ctx context.Context, date time.Time) (exists bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT EXISTS(SELECT 1 FROM global_snapshots WHERE is_eod AND snapshot_date = $1)`

	slog.Debug("EODSnapshotExists start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("EODSnapshotExists failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("EODSnapshotExists completed", slog.String("rqID", rqID), slog.Bool("exists", exists))
		}
	}()

	err = r.txOrDb(ctx).GetContext(ctx, &exists, query, date.Format(time.DateOnly))
	return exists, err
}

func (r *Postgres) GetLatestGlobalSnapshot(ctx context.Context) (snapshot model.GlobalSnapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, ts, snapshot_date, is_eod, total_value, daily_change, daily_percent, all_time_gain, all_time_percent
		FROM global_snapshots
		ORDER BY ts DESC, id DESC
		LIMIT 1`

	slog.Debug("GetLatestGlobalSnapshot start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetLatestGlobalSnapshot failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetLatestGlobalSnapshot completed", slog.String("rqID", rqID))
		}
	}()

	var row dbModel.GlobalSnapshot
	if err = r.txOrDb(ctx).GetContext(ctx, &row, query); err != nil {
		return model.GlobalSnapshot{}, mapError(err)
	}

	return dbConverter.ConvertGlobalSnapshot(row), nil
}

func (r *Postgres) GetLatestPortfolioSnapshots(ctx context.Context) (snapshots []model.PortfolioSnapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT DISTINCT ON (portfolio_id)
			id, portfolio_id, ts, total_value, daily_change, daily_percent, all_time_gain, all_time_percent
		FROM portfolio_snapshots
		ORDER BY portfolio_id, ts DESC, id DESC`

	slog.Debug("GetLatestPortfolioSnapshots start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetLatestPortfolioSnapshots failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetLatestPortfolioSnapshots completed", slog.String("rqID", rqID))
		}
	}()

	var rows []dbModel.PortfolioSnapshot
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	snapshots = make([]model.PortfolioSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, dbConverter.ConvertPortfolioSnapshot(row))
	}
	return snapshots, nil
}

// GetEODHistory returns the latest EOD snapshots, newest first.
func (r *Postgres) GetEODHistory(ctx context.Context, limit int) (snapshots []model.GlobalSnapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, ts, snapshot_date, is_eod, total_value, daily_change, daily_percent, all_time_gain, all_time_percent
		FROM global_snapshots
		WHERE is_eod
		ORDER BY snapshot_date DESC
		LIMIT $1`

	slog.Debug("GetEODHistory start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetEODHistory failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetEODHistory completed", slog.String("rqID", rqID))
		}
	}()

	var rows []dbModel.GlobalSnapshot
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	snapshots = make([]model.GlobalSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, dbConverter.ConvertGlobalSnapshot(row))
	}
	return snapshots, nil
}
