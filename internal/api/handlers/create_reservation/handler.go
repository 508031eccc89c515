package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ConsultorioService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidTime        = "formato de fecha inválido, se espera RFC 3339 (2025-06-10T10:00:00-03:00)"
	msgUnauthorized       = "usuario no identificado"
	msgResourceNotFound   = "consultorio no encontrado"
	msgResourceInactive   = "el consultorio no está disponible para reservas"
	msgSourceNotFound     = "la reserva a reprogramar no existe"
	msgOwnerNotFound      = "el usuario titular no existe"
	msgDirectory          = "el directorio de usuarios no está disponible"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	role := middleware.GetRole(r.Context())

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, role)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /reservations - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrResourceInactive):
			h.logger.Warn("POST /reservations - Resource inactive: resource_id=%d", req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgResourceInactive)

		case errors.Is(err, createBooking.ErrSourceNotFound):
			h.logger.Warn("POST /reservations - Reschedule source not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgSourceNotFound)

		case errors.Is(err, createBooking.ErrOwnerNotFound):
			h.logger.Warn("POST /reservations - Owner not found: owner_id=%d, user_id=%d", req.OwnerID, userID)
			handlers.RespondNotFound(w, msgOwnerNotFound)

		case errors.Is(err, createBooking.ErrDirectoryUnavailable):
			h.logger.Error("POST /reservations - User directory unavailable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgDirectory)

		case handlers.StatusOf(err) < http.StatusInternalServerError:
			h.logger.Warn("POST /reservations - Rejected: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Created %d reservation(s): first_id=%d, user_id=%d",
		len(result.Reservations), result.Reservations[0].ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
