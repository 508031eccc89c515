package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-ConsultorioService/internal/usecase/get_availability"
)

const (
	msgInvalidResourceID = "ID de consultorio inválido"
	msgMissingDate       = "la fecha es obligatoria"
	msgInvalidDate       = "formato de fecha inválido, se espera AAAA-MM-DD"
	msgResourceNotFound  = "consultorio no encontrado"
	msgResourceInactive  = "el consultorio no admite reservas"
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /resources/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(resourceID, dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailability.ErrResourceInactive):
			handlers.RespondError(w, http.StatusConflict, msgResourceInactive)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed to get availability: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/availability - Slots retrieved: resource_id=%d, slots_count=%d",
		resourceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
