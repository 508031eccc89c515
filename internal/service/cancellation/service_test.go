package cancellation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/testutil"
	"github.com/m04kA/SMC-ConsultorioService/pkg/logger"
)

type recordedOutcomes []string

func (r *recordedOutcomes) RecordCancellation(outcome string) {
	*r = append(*r, outcome)
}

type fixture struct {
	store    *testutil.ReservationStore
	tx       *testutil.TxManager
	notifier *testutil.Notifier
	clock    *testutil.Clock
	outcomes *recordedOutcomes
	svc      *Service
}

func newFixture(now time.Time, seed ...*domain.Reservation) *fixture {
	store := testutil.NewReservationStore(seed...)
	f := &fixture{
		store:    store,
		tx:       &testutil.TxManager{Store: store},
		notifier: &testutil.Notifier{},
		clock:    &testutil.Clock{At: now},
		outcomes: &recordedOutcomes{},
	}
	f.svc = NewService(store, f.tx, f.notifier, f.outcomes, f.clock, domain.DefaultCancellationPolicy(), logger.Nop())
	return f
}

func TestCancelSinglePenalizedScenario(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC), activeAt(1, start))

	outcome, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{
		ReservationID: 1, RequestingUserID: 10, Role: domain.RoleClient,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomePenalized, outcome.Tag)
	stored := f.store.Get(1)
	assert.Equal(t, domain.StatusCancelledWithPenalty, stored.Status)
	assert.Equal(t, time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), *stored.RescheduleDeadline)

	assert.Equal(t, recordedOutcomes{"PENALIZED"}, *f.outcomes)
	assert.Equal(t, []string{domain.EventReservationCancelled}, f.notifier.Kinds())
	assert.Equal(t, int64(10), f.notifier.Events[0].OwnerID)
}

func TestCancelSingleFreeScenario(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC), activeAt(1, start))

	outcome, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{
		ReservationID: 1, RequestingUserID: 10, Role: domain.RoleClient,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCancelled, outcome.Tag)
	stored := f.store.Get(1)
	assert.Equal(t, domain.StatusCancelledFree, stored.Status)
	assert.Nil(t, stored.RescheduleDeadline)
	assert.False(t, stored.WasRescheduled)
}

func TestCancelSingleErrors(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	cancelled := activeAt(2, start.Add(3*time.Hour))
	cancelled.Status = domain.StatusCancelledFree
	now := start.Add(-48 * time.Hour)
	cancelled.CancelledAt = &now

	tests := []struct {
		name    string
		req     *CancelSingleRequest
		wantErr error
	}{
		{name: "not found", req: &CancelSingleRequest{ReservationID: 99, RequestingUserID: 10}, wantErr: domain.ErrNotFound},
		{name: "other client", req: &CancelSingleRequest{ReservationID: 1, RequestingUserID: 11, Role: domain.RoleClient}, wantErr: domain.ErrForbidden},
		{name: "not active", req: &CancelSingleRequest{ReservationID: 2, RequestingUserID: 10}, wantErr: domain.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(now, activeAt(1, start), cancelled)

			_, err := f.svc.CancelSingle(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.StatusActive, f.store.Get(1).Status)
			assert.Empty(t, f.notifier.Events)
			assert.Empty(t, *f.outcomes)
		})
	}
}

func TestCancelSingleByAdmin(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(start.Add(-72*time.Hour), activeAt(1, start))

	outcome, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{
		ReservationID: 1, RequestingUserID: 1, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCancelled, outcome.Tag)
}

func rescheduledPair() (*domain.Reservation, *domain.Reservation) {
	cancelledAt := time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC)
	deadline := domain.DefaultCancellationPolicy().RescheduleDeadline(cancelledAt)

	source := activeAt(1, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
	source.Status = domain.StatusCancelledWithPenalty
	source.CancelledAt = &cancelledAt
	source.RescheduleDeadline = &deadline
	source.WasRescheduled = true

	replacement := activeAt(2, time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC))
	sourceID := source.ID
	replacement.RescheduleSourceID = &sourceID

	return source, replacement
}

func TestCancelReplacementRevertsSource(t *testing.T) {
	source, replacement := rescheduledPair()
	// замена отменяется за час до начала - штрафа нет, срабатывает возврат
	f := newFixture(replacement.StartTime.Add(-time.Hour), source, replacement)

	outcome, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{
		ReservationID: 2, RequestingUserID: 10, Role: domain.RoleClient,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeRescheduleReverted, outcome.Tag)
	require.Len(t, outcome.Mutated, 2)

	restored := f.store.Get(1)
	assert.Equal(t, domain.StatusActive, restored.Status)
	assert.Nil(t, restored.RescheduleDeadline)
	assert.False(t, restored.WasRescheduled)
	assert.Nil(t, restored.CancelledAt)

	assert.Equal(t, domain.StatusCancelledFree, f.store.Get(2).Status)
	assert.Equal(t, []string{domain.EventRescheduleReverted}, f.notifier.Kinds())
}

func TestCancelReplacementIsAtomic(t *testing.T) {
	source, replacement := rescheduledPair()
	f := newFixture(replacement.StartTime.Add(-time.Hour), source, replacement)

	// вторая запись (исходное бронирование) падает после того, как первая уже применена
	f.store.FailUpdateOnID = source.ID

	_, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{
		ReservationID: 2, RequestingUserID: 10, Role: domain.RoleClient,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)

	// ни одна строка не изменилась
	assert.Equal(t, domain.StatusActive, f.store.Get(2).Status)
	assert.Nil(t, f.store.Get(2).CancelledAt)
	assert.Equal(t, domain.StatusCancelledWithPenalty, f.store.Get(1).Status)
	assert.True(t, f.store.Get(1).WasRescheduled)
	assert.Empty(t, f.notifier.Events)
}

func TestCancelReplacementWhenSourceNoLongerPenalized(t *testing.T) {
	source, replacement := rescheduledPair()
	source.Status = domain.StatusCancelledFree
	source.RescheduleDeadline = nil
	f := newFixture(replacement.StartTime.Add(-2*time.Hour), source, replacement)

	outcome, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{
		ReservationID: 2, RequestingUserID: 10, Role: domain.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePenalized, outcome.Tag)
	assert.Equal(t, domain.StatusCancelledFree, f.store.Get(1).Status)
}

type conflictingStore struct {
	*testutil.ReservationStore
}

func (s conflictingStore) UpdateMany(context.Context, []*domain.Reservation) error {
	return &pq.Error{Code: "40001"}
}

func TestCancelSingleMapsSerializationFailure(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	store := testutil.NewReservationStore(activeAt(1, start))
	svc := NewService(conflictingStore{store}, &testutil.TxManager{Store: store}, nil, nil,
		&testutil.Clock{At: start.Add(-72 * time.Hour)}, domain.DefaultCancellationPolicy(), logger.Nop())

	_, err := svc.CancelSingle(context.Background(), &CancelSingleRequest{ReservationID: 1, RequestingUserID: 10})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelSingleIgnoresNotifierFailure(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(start.Add(-72*time.Hour), activeAt(1, start))
	f.notifier.Err = errors.New("redis down")

	outcome, err := f.svc.CancelSingle(context.Background(), &CancelSingleRequest{ReservationID: 1, RequestingUserID: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCancelled, outcome.Tag)
	assert.Len(t, f.notifier.Events, 1)
}

func TestCancelSeriesTwoHoursBeforeFirst(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(10, first)
	recID := *instances[0].RecurrenceID
	f := newFixture(first.Add(-2*time.Hour), instances...)

	outcome, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
		RecurrenceID: recID, SeriesOwnerID: 10, RequestingUserID: 10, Role: domain.RoleClient, FromStartTime: first,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSeriesCancelledWithPenalty, outcome.Tag)
	require.Len(t, outcome.Mutated, 10)

	penalized, free := 0, 0
	for _, r := range f.store.All() {
		switch r.Status {
		case domain.StatusCancelledWithPenalty:
			penalized++
			assert.Equal(t, first, r.StartTime)
		case domain.StatusCancelledFree:
			free++
		}
	}
	assert.Equal(t, 1, penalized)
	assert.Equal(t, 9, free)
	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, []string{domain.EventSeriesCancelled}, f.notifier.Kinds())
}

func TestCancelSeriesFromLaterInstance(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(5, first)
	recID := *instances[0].RecurrenceID
	f := newFixture(first.Add(-2*time.Hour), instances...)

	outcome, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
		RecurrenceID: recID, SeriesOwnerID: 10, RequestingUserID: 10, FromStartTime: first.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	// третий экземпляр через две недели - вне окна штрафа
	assert.Equal(t, domain.OutcomeSeriesCancelled, outcome.Tag)
	require.Len(t, outcome.Mutated, 3)
	assert.Equal(t, domain.StatusActive, f.store.Get(1).Status)
	assert.Equal(t, domain.StatusActive, f.store.Get(2).Status)
}

func TestCancelSeriesNoFutureBookings(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(2, first)
	recID := *instances[0].RecurrenceID
	f := newFixture(first.AddDate(0, 1, 0), instances...)

	outcome, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
		RecurrenceID: recID, SeriesOwnerID: 10, RequestingUserID: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoFutureBookings, outcome.Tag)
	assert.Empty(t, outcome.Mutated)
	assert.Zero(t, f.store.Updates)
	assert.Empty(t, f.notifier.Events)
	assert.Equal(t, recordedOutcomes{"NO_FUTURE_BOOKINGS"}, *f.outcomes)
}

func TestCancelSeriesErrors(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(3, first)
	recID := *instances[0].RecurrenceID

	tests := []struct {
		name    string
		req     *CancelSeriesRequest
		wantErr error
	}{
		{
			name:    "unknown series",
			req:     &CancelSeriesRequest{RecurrenceID: uuid.New(), SeriesOwnerID: 10, RequestingUserID: 10},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "client cancels someone else's series",
			req:     &CancelSeriesRequest{RecurrenceID: recID, SeriesOwnerID: 10, RequestingUserID: 11, Role: domain.RoleClient},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "owner id does not match the series",
			req:     &CancelSeriesRequest{RecurrenceID: recID, SeriesOwnerID: 11, RequestingUserID: 11, Role: domain.RoleClient},
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(first.Add(-72*time.Hour), instances...)

			_, err := f.svc.CancelSeries(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.store.Updates)
		})
	}
}

func TestCancelSeriesByAdminResolvesOwner(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(3, first)
	recID := *instances[0].RecurrenceID

	t.Run("future instances", func(t *testing.T) {
		f := newFixture(first.Add(-72*time.Hour), instances...)

		outcome, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
			RecurrenceID: recID, RequestingUserID: 1, Role: domain.RoleAdmin,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.OutcomeSeriesCancelled, outcome.Tag)
		assert.Len(t, outcome.Mutated, 3)
		require.Len(t, f.notifier.Events, 1)
		assert.Equal(t, int64(10), f.notifier.Events[0].OwnerID)
	})

	t.Run("nothing left to cancel", func(t *testing.T) {
		f := newFixture(first.AddDate(0, 1, 0), instances...)

		outcome, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
			RecurrenceID: recID, RequestingUserID: 1, Role: domain.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeNoFutureBookings, outcome.Tag)
	})

	t.Run("client without owner is checked against the series", func(t *testing.T) {
		f := newFixture(first.Add(-72*time.Hour), instances...)

		_, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
			RecurrenceID: recID, RequestingUserID: 11, Role: domain.RoleClient,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, f.store.Updates)
	})
}

func TestCancelSeriesIsAtomic(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(4, first)
	recID := *instances[0].RecurrenceID
	f := newFixture(first.Add(-72*time.Hour), instances...)
	f.store.FailUpdateOnID = 3

	_, err := f.svc.CancelSeries(context.Background(), &CancelSeriesRequest{
		RecurrenceID: recID, SeriesOwnerID: 10, RequestingUserID: 10,
	})
	require.Error(t, err)

	for _, r := range f.store.All() {
		assert.Equal(t, domain.StatusActive, r.Status, "instance %d", r.ID)
	}
}
