package check_conflicts

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidSlots       = "horarios inválidos: se esperan entre 1 y 60 intervalos RFC 3339 con fin posterior al inicio"
)

// Handler рекомендательная проверка пересечений для календаря
// Ничего не блокирует: окончательную проверку делает создание бронирования
type Handler struct {
	checker ConflictChecker
	logger  Logger
}

func NewHandler(checker ConflictChecker, logger Logger) *Handler {
	return &Handler{
		checker: checker,
		logger:  logger,
	}
}

// Handle POST /api/v1/conflicts/check
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckConflictsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /conflicts/check - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slots, err := req.ToCandidateSlots()
	if err != nil {
		h.logger.Warn("POST /conflicts/check - Invalid slots: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlots)
		return
	}

	result, err := h.checker.FindConflicts(r.Context(), slots)
	if err != nil {
		h.logger.Error("POST /conflicts/check - Failed to check conflicts: slots=%d, error=%v", len(slots), err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromResult(result))
}
