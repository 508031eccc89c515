package reconcile_access_log

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidTime        = "formato de fecha inválido en el registro de accesos, se espera RFC 3339"
	msgForbidden          = "solo un administrador puede conciliar el registro de accesos"
	msgDirectory          = "el servicio de usuarios no está disponible"
)

type Handler struct {
	service ReconciliationService
	logger  Logger
}

func NewHandler(service ReconciliationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/access-logs/reconcile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/access-logs/reconcile - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Warn("POST /admin/access-logs/reconcile - Invalid row: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.Run(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrAccessDenied):
			userID, _ := middleware.GetUserID(r.Context())
			h.logger.Warn("POST /admin/access-logs/reconcile - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reconciliation.ErrInvalidRow):
			h.logger.Warn("POST /admin/access-logs/reconcile - Invalid row: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, reconciliation.ErrUserDirectory):
			h.logger.Error("POST /admin/access-logs/reconcile - User directory unavailable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgDirectory)

		default:
			h.logger.Error("POST /admin/access-logs/reconcile - Failed to reconcile: rows=%d, error=%v", len(req.Rows), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/access-logs/reconcile - Reconciled: rows=%d, valid=%d, unmatched=%d, marked_used=%d",
		result.Report.Stats.Total, result.Report.Stats.Valid, result.Report.Stats.Unmatched, result.MarkedUsed)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(result))
}
