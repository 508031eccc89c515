package get_availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/testutil"
	getAvailability "github.com/m04kA/SMC-ConsultorioService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ConsultorioService/pkg/logger"
)

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	hours, err := domain.ParseOpeningHours("09:00", "12:00")
	require.NoError(t, err)

	start := time.Date(2025, 6, 10, 10, 0, 0, 0, loc)
	store := testutil.NewReservationStore(&domain.Reservation{
		ID: 1, OwnerID: 20, ResourceID: 3, StartTime: start, EndTime: start.Add(time.Hour),
		Kind: domain.KindOneOff, Status: domain.StatusActive,
	})
	resources := testutil.Resources{
		3: {ID: 3, Name: "Consultorio 3", HourlyRate: decimal.NewFromInt(10), IsActive: true},
		9: {ID: 9, Name: "Consultorio 9", HourlyRate: decimal.NewFromInt(10), IsActive: false},
	}
	uc := getAvailability.NewUseCase(store, resources, hours,
		&testutil.Clock{At: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}, logger.Nop())

	router := mux.NewRouter()
	router.HandleFunc("/resources/{resourceId}/availability", NewHandler(uc, loc, logger.Nop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetAvailability(t *testing.T) {
	rec := serve(t, "/resources/3/availability?date=2025-06-10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, "2025-06-10", body.Date)
	require.Len(t, body.Slots, 3)
	assert.Equal(t, "2025-06-10T09:00:00-03:00", body.Slots[0].StartTime)
	assert.True(t, body.Slots[0].Available)
	assert.False(t, body.Slots[1].Available)
	assert.True(t, body.Slots[2].Available)
}

func TestGetAvailabilityErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(t, "/resources/x/availability?date=2025-06-10").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, "/resources/3/availability").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, "/resources/3/availability?date=10-06-2025").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, "/resources/99/availability?date=2025-06-10").Code)
	assert.Equal(t, http.StatusConflict, serve(t, "/resources/9/availability?date=2025-06-10").Code)
}
