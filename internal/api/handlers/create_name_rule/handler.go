package create_name_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidRule        = "regla inválida: la acción debe ser ignore, track o alias, y solo alias indica usuario"
	msgForbidden          = "solo un administrador puede crear reglas"
	msgRuleExists         = "ya existe una regla para ese nombre"
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

// Handle POST /api/v1/admin/access-logs/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/access-logs/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, err := h.service.CreateRule(r.Context(), req.ToServiceRequest(middleware.GetRole(r.Context())))
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrAccessDenied):
			h.logger.Warn("POST /admin/access-logs/rules - Access denied")
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reconciliation.ErrInvalidRule):
			h.logger.Warn("POST /admin/access-logs/rules - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /admin/access-logs/rules - Rule already exists: name=%q", req.Name)
			handlers.RespondError(w, http.StatusConflict, msgRuleExists)

		default:
			h.logger.Error("POST /admin/access-logs/rules - Failed to create rule: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/access-logs/rules - Rule created: id=%d, action=%s", rule.ID, rule.Action)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(rule))
}
