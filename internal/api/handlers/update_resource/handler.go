package update_resource

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/resources"
)

const (
	msgInvalidResourceID  = "ID de consultorio inválido"
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgNotFound           = "consultorio no encontrado"
	msgForbidden          = "solo un administrador puede modificar consultorios"
	msgInvalidData        = "el nombre es obligatorio y la tarifa no puede ser negativa"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/resources/{resourceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/resources/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req UpdateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/resources/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(resourceID, middleware.GetRole(r.Context())))
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PATCH /admin/resources/{id} - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PATCH /admin/resources/{id} - Access denied: resource_id=%d", resourceID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/resources/{id} - Invalid data: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /admin/resources/{id} - Failed to update resource: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/resources/{id} - Resource updated: resource_id=%d, rate=%s, active=%t",
		resourceID, result.HourlyRate, result.IsActive)
	handlers.RespondJSON(w, http.StatusOK, result)
}
