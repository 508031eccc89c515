package cancel_series

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation"
)

const (
	msgInvalidRecurrenceID = "ID de serie inválido"
	msgInvalidRequestBody  = "cuerpo de la solicitud inválido"
	msgInvalidTime         = "formato de fecha inválido, se espera RFC 3339"
	msgUnauthorized        = "usuario no identificado"
	msgNotFound            = "serie no encontrada"
	msgForbidden           = "acceso denegado"
	msgConcurrentUpdate    = "la serie fue modificada al mismo tiempo, intentá de nuevo"
)

type Handler struct {
	service CancellationService
	logger  Logger
}

func NewHandler(service CancellationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/series/{recurrenceId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	recurrenceID, err := uuid.Parse(mux.Vars(r)["recurrenceId"])
	if err != nil {
		h.logger.Warn("PATCH /series/{id}/cancel - Invalid recurrence ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurrenceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CancelSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /series/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	from, err := req.fromStartTime()
	if err != nil {
		h.logger.Warn("PATCH /series/{id}/cancel - Invalid fromStartTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	outcome, err := h.service.CancelSeries(r.Context(), &cancellation.CancelSeriesRequest{
		RecurrenceID:     recurrenceID,
		SeriesOwnerID:    req.OwnerID,
		RequestingUserID: userID,
		Role:             middleware.GetRole(r.Context()),
		FromStartTime:    from,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancellation.ErrSeriesNotFound):
			h.logger.Warn("PATCH /series/{id}/cancel - Series not found: recurrence_id=%s", recurrenceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancellation.ErrAccessDenied):
			h.logger.Warn("PATCH /series/{id}/cancel - Access denied: recurrence_id=%s, user_id=%d, owner_id=%d",
				recurrenceID, userID, req.OwnerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancellation.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /series/{id}/cancel - Concurrent update: recurrence_id=%s", recurrenceID)
			handlers.RespondError(w, http.StatusConflict, msgConcurrentUpdate)

		default:
			h.logger.Error("PATCH /series/{id}/cancel - Failed to cancel series: recurrence_id=%s, error=%v",
				recurrenceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /series/{id}/cancel - Series cancelled: recurrence_id=%s, outcome=%s, mutated=%d",
		recurrenceID, outcome.Tag, len(outcome.Mutated))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromOutcome(outcome))
}
