package billing_preview

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/billing"
)

const (
	msgInvalidUserID = "ID de usuario inválido"
	msgInvalidMode   = "periodicidad inválida, se espera weekly o monthly"
	msgUnauthorized  = "usuario no identificado"
	msgForbidden     = "acceso denegado"
)

type Handler struct {
	service BillingService
	logger  Logger
}

func NewHandler(service BillingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/billing-preview?mode=weekly|monthly
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/billing-preview - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	mode, err := domain.ParseBillingMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.logger.Warn("GET /users/{id}/billing-preview - Invalid mode: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMode)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	preview, err := h.service.PreviewCurrentPeriod(r.Context(), ownerID, userID, middleware.GetRole(r.Context()), mode)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/billing-preview - Access denied: owner_id=%d, user_id=%d", ownerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /users/{id}/billing-preview - Failed to build preview: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(preview))
}
