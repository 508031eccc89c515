package renew_series

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	renewSeries "github.com/m04kA/SMC-ConsultorioService/internal/usecase/renew_series"
)

const (
	msgInvalidRecurrenceID = "ID de serie inválido"
	msgInvalidRequestBody  = "cuerpo de la solicitud inválido"
	msgUnauthorized        = "usuario no identificado"
	msgNotFound            = "serie no encontrada"
	msgForbidden           = "acceso denegado"
)

type Handler struct {
	useCase RenewSeriesUseCase
	logger  Logger
}

func NewHandler(useCase RenewSeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/series/{recurrenceId}/renew
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	recurrenceID, err := uuid.Parse(mux.Vars(r)["recurrenceId"])
	if err != nil {
		h.logger.Warn("POST /series/{id}/renew - Invalid recurrence ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurrenceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req RenewSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /series/{id}/renew - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &renewSeries.Request{
		RecurrenceID:     recurrenceID,
		RequestingUserID: userID,
		Role:             middleware.GetRole(r.Context()),
		HorizonMonths:    req.HorizonMonths,
	})
	if err != nil {
		switch {
		case errors.Is(err, renewSeries.ErrSeriesNotFound):
			h.logger.Warn("POST /series/{id}/renew - Series not found: recurrence_id=%s", recurrenceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, renewSeries.ErrAccessDenied):
			h.logger.Warn("POST /series/{id}/renew - Access denied: recurrence_id=%s, user_id=%d", recurrenceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrRenewalConflict), errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /series/{id}/renew - Renewal conflict: recurrence_id=%s, error=%v", recurrenceID, err)
			handlers.RespondDomainError(w, err)

		case errors.Is(err, domain.ErrInvalidInterval):
			h.logger.Warn("POST /series/{id}/renew - Invalid horizon: recurrence_id=%s, horizon=%d", recurrenceID, req.HorizonMonths)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /series/{id}/renew - Failed to renew series: recurrence_id=%s, error=%v", recurrenceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /series/{id}/renew - Series renewed: recurrence_id=%s, instances=%d, new_end=%s",
		recurrenceID, len(result.Instances), result.NewRecurrenceEndDate.Format(domain.DateTimeFormat))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
