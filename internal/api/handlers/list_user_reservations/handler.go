package list_user_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
)

const (
	msgInvalidUserID = "ID de usuario inválido"
	msgInvalidRange  = "los parámetros from y to deben ser fechas RFC 3339 con to posterior a from"
	msgInvalidStatus = "estado de reserva desconocido"
	msgUnauthorized  = "usuario no identificado"
	msgForbidden     = "acceso denegado"
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

// Handle GET /api/v1/users/{userId}/reservations?from=&to=&status=
// status можно перечислить через запятую
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/reservations - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	query := r.URL.Query()
	from, err := handlers.ParseTime("from", query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /users/{userId}/reservations - Invalid range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := handlers.ParseTime("to", query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /users/{userId}/reservations - Invalid range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	var statuses []domain.ReservationStatus
	if raw := query.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.ReservationStatus(strings.TrimSpace(s)))
		}
	}

	result, err := h.service.ListByOwner(r.Context(), &models.ListByOwnerRequest{
		OwnerID:          ownerID,
		RequestingUserID: userID,
		Role:             middleware.GetRole(r.Context()),
		From:             from,
		To:               to,
		Statuses:         statuses,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/reservations - Access denied: owner_id=%d, user_id=%d", ownerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidInterval):
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /users/{userId}/reservations - Failed to list reservations: owner_id=%d, error=%v",
				ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/reservations - Reservations retrieved: owner_id=%d, count=%d",
		ownerID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
