package get_series

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations"
)

const (
	msgInvalidRecurrenceID = "ID de serie inválido"
	msgUnauthorized        = "usuario no identificado"
	msgNotFound            = "serie no encontrada"
	msgForbidden           = "acceso denegado"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/series/{recurrenceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	recurrenceID, err := uuid.Parse(mux.Vars(r)["recurrenceId"])
	if err != nil {
		h.logger.Warn("GET /series/{id} - Invalid recurrence ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurrenceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	series, err := h.service.GetSeries(r.Context(), recurrenceID, userID, middleware.GetRole(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrSeriesNotFound):
			h.logger.Warn("GET /series/{id} - Series not found: recurrence_id=%s", recurrenceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /series/{id} - Access denied: recurrence_id=%s, user_id=%d", recurrenceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /series/{id} - Failed to get series: recurrence_id=%s, error=%v", recurrenceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, series)
}
