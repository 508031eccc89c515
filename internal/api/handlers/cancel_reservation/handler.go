package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation"
)

const (
	msgInvalidReservationID = "ID de reserva inválido"
	msgUnauthorized         = "usuario no identificado"
	msgNotFound             = "reserva no encontrada"
	msgForbidden            = "acceso denegado"
	msgCannotCancel         = "la reserva no puede cancelarse"
	msgConcurrentUpdate     = "la reserva fue modificada al mismo tiempo, intentá de nuevo"
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

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	outcome, err := h.service.CancelSingle(r.Context(), &cancellation.CancelSingleRequest{
		ReservationID:    reservationID,
		RequestingUserID: userID,
		Role:             middleware.GetRole(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, cancellation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancellation.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancellation.ErrCannotCancel):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Cannot cancel: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		case errors.Is(err, cancellation.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Concurrent update: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgConcurrentUpdate)

		default:
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d, outcome=%s",
		reservationID, outcome.Tag)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromOutcome(outcome))
}
