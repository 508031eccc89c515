package cancellation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var policy = domain.DefaultCancellationPolicy()

func activeAt(id int64, start time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		ResourceID: 3,
		OwnerID:    10,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Kind:       domain.KindOneOff,
		Status:     domain.StatusActive,
	}
}

func TestDecideSingle(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		now          time.Time
		wantTag      domain.OutcomeTag
		wantStatus   domain.ReservationStatus
		wantDeadline *time.Time
	}{
		{
			name:         "23 hours before start is penalized",
			now:          time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC),
			wantTag:      domain.OutcomePenalized,
			wantStatus:   domain.StatusCancelledWithPenalty,
			wantDeadline: ptrTime(time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)),
		},
		{
			name:       "25 hours before start is free",
			now:        time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
			wantTag:    domain.OutcomeCancelled,
			wantStatus: domain.StatusCancelledFree,
		},
		{
			name:       "exactly 24 hours is free",
			now:        start.Add(-24 * time.Hour),
			wantTag:    domain.OutcomeCancelled,
			wantStatus: domain.StatusCancelledFree,
		},
		{
			name:         "23h59m is penalized",
			now:          start.Add(-24*time.Hour + time.Minute),
			wantTag:      domain.OutcomePenalized,
			wantStatus:   domain.StatusCancelledWithPenalty,
			wantDeadline: ptrTime(start.Add(-24*time.Hour+time.Minute).AddDate(0, 0, 6)),
		},
		{
			name:         "already started is penalized",
			now:          start.Add(10 * time.Minute),
			wantTag:      domain.OutcomePenalized,
			wantStatus:   domain.StatusCancelledWithPenalty,
			wantDeadline: ptrTime(start.Add(10*time.Minute).AddDate(0, 0, 6)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := activeAt(1, start)

			decision, err := DecideSingle(original, tt.now, policy)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTag, decision.Tag)
			require.Len(t, decision.Mutated, 1)
			got := decision.Mutated[0]
			assert.Equal(t, tt.wantStatus, got.Status)
			require.NotNil(t, got.CancelledAt)
			assert.Equal(t, tt.now, *got.CancelledAt)
			if tt.wantDeadline == nil {
				assert.Nil(t, got.RescheduleDeadline)
			} else {
				require.NotNil(t, got.RescheduleDeadline)
				assert.Equal(t, *tt.wantDeadline, *got.RescheduleDeadline)
			}
			require.NoError(t, got.Validate())

			// решение не меняет входное бронирование
			assert.Equal(t, domain.StatusActive, original.Status)
			assert.Nil(t, original.CancelledAt)
		})
	}
}

func TestDecideSingleRejectsInactive(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.StatusCancelledFree,
		domain.StatusCancelledWithPenalty,
		domain.StatusUsed,
		domain.StatusRescheduled,
	} {
		r := activeAt(1, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
		r.Status = status
		_, err := DecideSingle(r, r.StartTime.Add(-48*time.Hour), policy)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "status %s", status)
	}
}

func TestDecideRevert(t *testing.T) {
	cancelledAt := time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC)
	deadline := policy.RescheduleDeadline(cancelledAt)

	source := activeAt(1, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
	source.Status = domain.StatusCancelledWithPenalty
	source.CancelledAt = &cancelledAt
	source.RescheduleDeadline = &deadline
	source.WasRescheduled = true

	replacement := activeAt(2, time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC))
	replacement.RescheduleSourceID = &source.ID

	now := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
	decision, err := DecideRevert(replacement, source, now)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeRescheduleReverted, decision.Tag)
	require.Len(t, decision.Mutated, 2)

	cancelled, restored := decision.Mutated[0], decision.Mutated[1]
	assert.Equal(t, int64(2), cancelled.ID)
	assert.Equal(t, domain.StatusCancelledFree, cancelled.Status)
	assert.Equal(t, now, *cancelled.CancelledAt)

	assert.Equal(t, int64(1), restored.ID)
	assert.Equal(t, domain.StatusActive, restored.Status)
	assert.Nil(t, restored.RescheduleDeadline)
	assert.Nil(t, restored.CancelledAt)
	assert.False(t, restored.WasRescheduled)
	require.NoError(t, restored.Validate())
}

func TestDecideRevertRequiresPenalizedSource(t *testing.T) {
	source := activeAt(1, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
	replacement := activeAt(2, time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC))
	replacement.RescheduleSourceID = &source.ID

	_, err := DecideRevert(replacement, source, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	other := int64(99)
	replacement.RescheduleSourceID = &other
	source.Status = domain.StatusCancelledWithPenalty
	_, err = DecideRevert(replacement, source, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func series(n int, first time.Time) []*domain.Reservation {
	recID := uuid.New()
	end := first.AddDate(0, 0, 7*n)
	out := make([]*domain.Reservation, 0, n)
	for i := 0; i < n; i++ {
		r := activeAt(int64(i+1), first.AddDate(0, 0, 7*i))
		r.Kind = domain.KindRecurring
		r.RecurrenceID = &recID
		r.RecurrenceEndDate = &end
		out = append(out, r)
	}
	return out
}

func TestFoldSeriesTwoHoursBeforeFirst(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(10, first)

	decision, err := FoldSeries(instances, first.Add(-2*time.Hour), policy)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSeriesCancelledWithPenalty, decision.Tag)
	require.Len(t, decision.Mutated, 10)

	penalized := 0
	for i, r := range decision.Mutated {
		if r.Status == domain.StatusCancelledWithPenalty {
			penalized++
			assert.Equal(t, 0, i, "only the earliest instance may be penalized")
			continue
		}
		assert.Equal(t, domain.StatusCancelledFree, r.Status)
		assert.Nil(t, r.RescheduleDeadline)
	}
	assert.Equal(t, 1, penalized)
}

func TestFoldSeriesWithNoticeIsFree(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	decision, err := FoldSeries(series(4, first), first.Add(-72*time.Hour), policy)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSeriesCancelled, decision.Tag)
	for _, r := range decision.Mutated {
		assert.Equal(t, domain.StatusCancelledFree, r.Status)
	}
}

func TestFoldSeriesPenalizesAtMostOnce(t *testing.T) {
	// все экземпляры внутри окна штрафа - штраф всё равно один
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := make([]*domain.Reservation, 0)
	for i := 0; i < 8; i++ {
		instances = append(instances, activeAt(int64(i+1), first.Add(time.Duration(i)*2*time.Hour)))
	}

	// порядок на входе не важен
	instances[0], instances[5] = instances[5], instances[0]

	decision, err := FoldSeries(instances, first.Add(-time.Hour), policy)
	require.NoError(t, err)

	penalized := 0
	for _, r := range decision.Mutated {
		if r.Status == domain.StatusCancelledWithPenalty {
			penalized++
			assert.Equal(t, int64(1), r.ID)
		}
	}
	assert.Equal(t, 1, penalized)

	for i := 1; i < len(decision.Mutated); i++ {
		assert.True(t, decision.Mutated[i-1].StartTime.Before(decision.Mutated[i].StartTime))
	}
}

func TestFoldSeriesEmpty(t *testing.T) {
	decision, err := FoldSeries(nil, time.Now(), policy)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoFutureBookings, decision.Tag)
	assert.Empty(t, decision.Mutated)
}

func TestFoldSeriesRejectsInactiveInstance(t *testing.T) {
	first := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	instances := series(3, first)
	instances[1].Status = domain.StatusUsed

	_, err := FoldSeries(instances, first.Add(-72*time.Hour), policy)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
