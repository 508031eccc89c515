package dbmetrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/pkg/metrics"
)

func TestDBRecordsQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	wrapped := Wrap(db, m)

	mock.ExpectExec("UPDATE reservations").WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = wrapped.ExecContext(context.Background(), "UPDATE reservations SET status = $1", "used")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("update", "ok")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutorPrefersTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := Wrap(db, nil)
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, wrapped, GetExecutor(ctx, wrapped))

	mock.ExpectBegin()
	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, wrapped))

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "select", operationOf("  SELECT id FROM reservations"))
	assert.Equal(t, "unknown", operationOf(""))
}
