package list_resources

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
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

// Handle GET /api/v1/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRole(r.Context())

	result, err := h.service.List(r.Context(), role)
	if err != nil {
		h.logger.Error("GET /resources - Failed to list resources: role=%s, error=%v", role, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
