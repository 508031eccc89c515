package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("svc: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidState, http.StatusConflict},
		{&domain.ConflictError{}, http.StatusConflict},
		{&domain.RenewalConflictError{}, http.StatusConflict},
		{domain.ErrRescheduleWindowExpired, http.StatusGone},
		{domain.ErrAlreadyRescheduled, http.StatusConflict},
		{domain.ErrInvalidDate, http.StatusBadRequest},
		{domain.ErrInvalidInterval, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrStorage), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestRespondDomainErrorWithConflicts(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	err := &domain.ConflictError{
		AccessoryConflicts: []*domain.Reservation{{
			ID: 42, ResourceID: 4, OwnerID: 20, StartTime: start, EndTime: start.Add(time.Hour),
			Kind: domain.KindOneOff, Status: domain.StatusActive, UsesSharedAccessory: true,
		}},
	}

	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("create: %w", err))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Horario no disponible", body.Title)
	assert.Empty(t, body.ResourceConflicts)
	require.Len(t, body.AccessoryConflicts, 1)
	assert.Equal(t, int64(42), body.AccessoryConflicts[0].ID)
}

func TestRespondDomainErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("%w: pq: connection refused", domain.ErrStorage))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq")
}

func TestEveryOutcomeHasText(t *testing.T) {
	for _, tag := range []domain.OutcomeTag{
		domain.OutcomePenalized, domain.OutcomeCancelled, domain.OutcomeRescheduleReverted,
		domain.OutcomeSeriesCancelledWithPenalty, domain.OutcomeSeriesCancelled, domain.OutcomeNoFutureBookings,
	} {
		text := OutcomeText(tag)
		assert.NotEmpty(t, text.Title, tag)
		assert.NotEqual(t, string(tag), text.Message, tag)
	}
}
