package cancel_reservation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation"
	"github.com/m04kA/SMC-ConsultorioService/internal/testutil"
	"github.com/m04kA/SMC-ConsultorioService/pkg/logger"
)

var start = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func newRouter(now time.Time, seed ...*domain.Reservation) (*mux.Router, *testutil.ReservationStore) {
	store := testutil.NewReservationStore(seed...)
	svc := cancellation.NewService(store, &testutil.TxManager{Store: store}, nil, nil,
		&testutil.Clock{At: now}, domain.DefaultCancellationPolicy(), logger.Nop())

	router := mux.NewRouter()
	router.Handle("/reservations/{reservationId}/cancel",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.Nop()).Handle))).Methods(http.MethodPatch)
	return router, store
}

func cancel(router *mux.Router, path, userID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderUserRole, role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func active(id int64) *domain.Reservation {
	return &domain.Reservation{
		ID: id, ResourceID: 3, OwnerID: 10,
		StartTime: start, EndTime: start.Add(time.Hour),
		Kind: domain.KindOneOff, Status: domain.StatusActive,
	}
}

func TestCancelReservationPenalized(t *testing.T) {
	router, store := newRouter(start.Add(-23*time.Hour), active(1))

	rec := cancel(router, "/reservations/1/cancel", "10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.CancellationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "PENALIZED", body.Outcome)
	assert.Equal(t, "Reserva cancelada con cargo", body.Title)
	require.Len(t, body.Reservations, 1)
	assert.Equal(t, "cancelled_with_penalty", body.Reservations[0].Status)
	require.NotNil(t, body.Reservations[0].RescheduleDeadline)
	assert.Equal(t, domain.StatusCancelledWithPenalty, store.Get(1).Status)
}

func TestCancelReservationFreeByAdmin(t *testing.T) {
	router, store := newRouter(start.Add(-48*time.Hour), active(1))

	rec := cancel(router, "/reservations/1/cancel", "1", "admin")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.CancellationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "CANCELLED", body.Outcome)
	assert.Equal(t, domain.StatusCancelledFree, store.Get(1).Status)
}

func TestCancelReservationErrors(t *testing.T) {
	router, _ := newRouter(start.Add(-48*time.Hour), active(1))

	assert.Equal(t, http.StatusBadRequest, cancel(router, "/reservations/x/cancel", "10", "").Code)
	assert.Equal(t, http.StatusUnauthorized, cancel(router, "/reservations/1/cancel", "", "").Code)
	assert.Equal(t, http.StatusNotFound, cancel(router, "/reservations/99/cancel", "10", "").Code)
	assert.Equal(t, http.StatusForbidden, cancel(router, "/reservations/1/cancel", "20", "").Code)

	require.Equal(t, http.StatusOK, cancel(router, "/reservations/1/cancel", "10", "").Code)
	assert.Equal(t, http.StatusConflict, cancel(router, "/reservations/1/cancel", "10", "").Code)
}
