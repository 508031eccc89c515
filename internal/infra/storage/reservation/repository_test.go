package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

func reservationRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

var (
	start = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	audit = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
)

func TestGetByID(t *testing.T) {
	repo, _, mock := newRepo(t)
	recID := uuid.New()
	endDate := start.AddDate(0, 4, 0)

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \$1$`).
		WithArgs(int64(7)).
		WillReturnRows(reservationRows().AddRow(
			int64(7), int64(3), int64(10), start, start.Add(time.Hour), "recurring", true, "active",
			recID.String(), endDate, nil, nil, false, nil, audit, audit,
		))

	res, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, domain.KindRecurring, res.Kind)
	assert.Equal(t, domain.StatusActive, res.Status)
	require.NotNil(t, res.RecurrenceID)
	assert.Equal(t, recID, *res.RecurrenceID)
	require.NotNil(t, res.RecurrenceEndDate)
	assert.True(t, endDate.Equal(*res.RecurrenceEndDate))
	assert.Nil(t, res.RescheduleSourceID)
	assert.Nil(t, res.CancelledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(reservationRows())

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDLocksRowInsideTransaction(t *testing.T) {
	repo, wrapped, mock := newRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(reservationRows().AddRow(
			int64(7), int64(3), int64(10), start, start.Add(time.Hour), "one_off", false, "active",
			nil, nil, nil, nil, false, nil, audit, audit,
		))
	mock.ExpectRollback()

	_, err = repo.GetByID(dbmetrics.WithTx(ctx, tx), 7)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDRejectsUnknownStatus(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM reservations`).
		WillReturnRows(reservationRows().AddRow(
			int64(7), int64(3), int64(10), start, start.Add(time.Hour), "one_off", false, "deleted",
			nil, nil, nil, nil, false, nil, audit, audit,
		))

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrScanRow)
}

func TestFindOverlappingBuildsOneConditionPerInterval(t *testing.T) {
	repo, _, mock := newRepo(t)
	intervals := []domain.Interval{
		{Start: start, End: start.Add(time.Hour)},
		{Start: start.AddDate(0, 0, 7), End: start.AddDate(0, 0, 7).Add(time.Hour)},
	}

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE resource_id = \$1 AND status IN \(\$2,\$3\) AND \(\(start_time < \$4 AND end_time > \$5\) OR \(start_time < \$6 AND end_time > \$7\)\) ORDER BY start_time ASC, id ASC`).
		WithArgs(int64(3), "active", "used",
			intervals[0].End, intervals[0].Start, intervals[1].End, intervals[1].Start).
		WillReturnRows(reservationRows().AddRow(
			int64(11), int64(3), int64(20), start.Add(30*time.Minute), start.Add(90*time.Minute), "one_off", false, "active",
			nil, nil, nil, nil, false, nil, audit, audit,
		))

	found, err := repo.FindOverlapping(context.Background(), 3, intervals)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(11), found[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOverlappingWithoutIntervalsSkipsQuery(t *testing.T) {
	repo, _, mock := newRepo(t)

	found, err := repo.FindOverlappingAccessory(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOverlappingAccessoryIgnoresResource(t *testing.T) {
	repo, _, mock := newRepo(t)
	iv := domain.Interval{Start: start, End: start.Add(time.Hour)}

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE uses_shared_accessory = \$1 AND status IN`).
		WithArgs(true, "active", "used", iv.End, iv.Start).
		WillReturnRows(reservationRows())

	found, err := repo.FindOverlappingAccessory(context.Background(), []domain.Interval{iv})
	require.NoError(t, err)
	assert.Empty(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertManyAssignsReturnedIDs(t *testing.T) {
	repo, _, mock := newRepo(t)
	recID := uuid.New()
	endDate := start.AddDate(0, 1, 0)

	batch := []*domain.Reservation{
		{ResourceID: 3, OwnerID: 10, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindRecurring,
			Status: domain.StatusActive, RecurrenceID: &recID, RecurrenceEndDate: &endDate},
		{ResourceID: 3, OwnerID: 10, StartTime: start.AddDate(0, 0, 7), EndTime: start.AddDate(0, 0, 7).Add(time.Hour),
			Kind: domain.KindRecurring, Status: domain.StatusActive, RecurrenceID: &recID, RecurrenceEndDate: &endDate},
	}

	mock.ExpectQuery(`INSERT INTO reservations (.+) VALUES (.+),(.+) RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(100), audit, audit).
			AddRow(int64(101), audit, audit))

	saved, err := repo.InsertMany(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, int64(100), saved[0].ID)
	assert.Equal(t, int64(101), saved[1].ID)
	assert.Equal(t, audit, saved[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertManyMapsExclusionViolationToConflict(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "reservations_no_room_overlap"})

	_, err := repo.InsertMany(context.Background(), []*domain.Reservation{
		{ResourceID: 3, OwnerID: 10, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverlap)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "reservations_no_room_overlap")
}

func TestInsertManyMapsSecondReplacementToAlreadyRescheduled(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_reservations_reschedule_source"})

	sourceID := int64(41)
	_, err := repo.InsertMany(context.Background(), []*domain.Reservation{
		{ResourceID: 3, OwnerID: 10, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive, RescheduleSourceID: &sourceID},
	})
	assert.ErrorIs(t, err, ErrSourceAlreadyReplaced)
	assert.ErrorIs(t, err, domain.ErrAlreadyRescheduled)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.False(t, IsConflict(err))
}

func TestInsertManyOtherErrorsAreStorageErrors(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO reservations`).WillReturnError(errors.New("connection reset"))

	_, err := repo.InsertMany(context.Background(), []*domain.Reservation{
		{ResourceID: 3, OwnerID: 10, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive},
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateManyUpdatesEveryRow(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := start.Add(-2 * time.Hour)
	deadline := now.AddDate(0, 0, 6)

	batch := []*domain.Reservation{
		{ID: 1, Status: domain.StatusCancelledWithPenalty, CancelledAt: &now, RescheduleDeadline: &deadline},
		{ID: 2, Status: domain.StatusCancelledFree, CancelledAt: &now},
	}

	mock.ExpectExec(`UPDATE reservations SET status = \$1, cancelled_at = \$2, reschedule_deadline = \$3, was_rescheduled = \$4, recurrence_end_date = \$5, updated_at = NOW\(\) WHERE id = \$6`).
		WithArgs("cancelled_with_penalty", sqlmock.AnyArg(), sqlmock.AnyArg(), false, nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE reservations SET status = \$1`).
		WithArgs("cancelled_free", sqlmock.AnyArg(), nil, false, nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateMany(context.Background(), batch))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateManyMissingRow(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`UPDATE reservations`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMany(context.Background(), []*domain.Reservation{{ID: 9, Status: domain.StatusCancelledFree}})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestMarkUsedOnlyTouchesActiveRows(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`UPDATE reservations SET status = \$1, updated_at = NOW\(\) WHERE id IN \(\$2,\$3\) AND status = \$4`).
		WithArgs("used", int64(5), int64(6), "active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.MarkUsed(context.Background(), []int64{5, 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRecurrenceEndDate(t *testing.T) {
	repo, _, mock := newRepo(t)
	recID := uuid.New()
	endDate := start.AddDate(0, 8, 0)

	mock.ExpectExec(`UPDATE reservations SET recurrence_end_date = \$1, updated_at = NOW\(\) WHERE recurrence_id = \$2`).
		WithArgs(endDate, recID.String()).
		WillReturnResult(sqlmock.NewResult(0, 17))

	n, err := repo.UpdateRecurrenceEndDate(context.Background(), recID, endDate)
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(&pq.Error{Code: "40001"}))
	assert.True(t, IsConflict(ErrOverlap))
	assert.False(t, IsConflict(&pq.Error{Code: "23502"}))
	assert.False(t, IsConflict(errors.New("boom")))
}
