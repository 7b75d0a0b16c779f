package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/KotFed0t/finance_tracker/data/repository"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", sql.ErrNoRows)), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: uniqueViolationCode}), repository.ErrAlreadyExists)
	assert.Equal(t, other, mapError(other))

	fk := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(fk), mapError(fk))
}

// testPostgres connects to a migrated database from TEST_POSTGRES_DSN.
func testPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}
	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db)
}

var errRollback = errors.New("rollback")

func TestEODSnapshotUniquePerDate(t *testing.T) {
	p := testPostgres(t)
	date := time.Date(2099, 1, 2, 0, 0, 0, 0, time.UTC)
	snapshot := model.GlobalSnapshot{
		Timestamp:    date.Add(21 * time.Hour),
		SnapshotDate: date,
		IsEOD:        true,
		Valuation:    model.Valuation{TotalValue: decimal.NewFromInt(1675)},
	}

	err := p.WithinTransaction(context.Background(), func(ctx context.Context) error {
		exists, err := p.EODSnapshotExists(ctx, date)
		require.NoError(t, err)
		assert.False(t, exists)

		intraday := snapshot
		intraday.IsEOD = false
		_, err = p.InsertGlobalSnapshot(ctx, intraday)
		require.NoError(t, err)

		exists, err = p.EODSnapshotExists(ctx, date)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = p.InsertGlobalSnapshot(ctx, snapshot)
		require.NoError(t, err)

		exists, err = p.EODSnapshotExists(ctx, date)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = p.InsertGlobalSnapshot(ctx, snapshot)
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)

		return errRollback
	})

	assert.ErrorIs(t, err, errRollback)
}

func TestWithinTransaction_Nested(t *testing.T) {
	p := testPostgres(t)

	err := p.WithinTransaction(context.Background(), func(ctx context.Context) error {
		outer := p.extractTx(ctx)
		require.NotNil(t, outer)

		return p.WithinTransaction(ctx, func(ctx context.Context) error {
			assert.Same(t, outer, p.extractTx(ctx))
			return errRollback
		})
	})

	assert.ErrorIs(t, err, errRollback)
}
