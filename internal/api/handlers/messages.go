package handlers

import (
	"errors"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
)

// Text заголовок и сообщение для пользователя
type Text struct {
	Title   string
	Message string
}

var outcomeTexts = map[domain.OutcomeTag]Text{
	domain.OutcomePenalized: {
		Title:   "Reserva cancelada con cargo",
		Message: "Cancelaste con menos de 24 horas de anticipación: la reserva se cobra. Podés reprogramarla sin costo dentro de los próximos 6 días.",
	},
	domain.OutcomeCancelled: {
		Title:   "Reserva cancelada",
		Message: "La reserva fue cancelada sin cargo.",
	},
	domain.OutcomeRescheduleReverted: {
		Title:   "Reprogramación anulada",
		Message: "Cancelaste la reserva de reemplazo: la reserva original vuelve a estar activa.",
	},
	domain.OutcomeSeriesCancelledWithPenalty: {
		Title:   "Serie cancelada con cargo",
		Message: "La próxima reserva de la serie se cobra por cancelarse con menos de 24 horas. Las demás se cancelaron sin cargo.",
	},
	domain.OutcomeSeriesCancelled: {
		Title:   "Serie cancelada",
		Message: "Todas las reservas futuras de la serie fueron canceladas sin cargo.",
	},
	domain.OutcomeNoFutureBookings: {
		Title:   "Sin reservas futuras",
		Message: "La serie no tiene reservas futuras para cancelar.",
	},
}

// OutcomeText текст для результата отмены
func OutcomeText(tag domain.OutcomeTag) Text {
	if text, ok := outcomeTexts[tag]; ok {
		return text
	}
	return Text{Title: "Operación realizada", Message: string(tag)}
}

// errorTextOf текст для доменной ошибки; порядок важен: сначала более специфичные
func errorTextOf(err error) Text {
	switch {
	case errors.Is(err, domain.ErrRenewalConflict):
		return Text{
			Title:   "No se pudo renovar la serie",
			Message: "Algunos horarios de la renovación ya están ocupados. No se creó ninguna reserva nueva.",
		}
	case errors.Is(err, domain.ErrConflict):
		return Text{
			Title:   "Horario no disponible",
			Message: "El consultorio o la camilla ya están reservados en ese horario.",
		}
	case errors.Is(err, domain.ErrRescheduleWindowExpired):
		return Text{
			Title:   "Plazo de reprogramación vencido",
			Message: "Ya pasaron los 6 días para reprogramar esta reserva.",
		}
	case errors.Is(err, domain.ErrAlreadyRescheduled):
		return Text{
			Title:   "Reserva ya reprogramada",
			Message: "Esta reserva ya tiene un reemplazo.",
		}
	case errors.Is(err, domain.ErrNotFound):
		return Text{Title: "No encontrado", Message: "El recurso solicitado no existe."}
	case errors.Is(err, domain.ErrForbidden):
		return Text{Title: "Acceso denegado", Message: "No tenés permiso para realizar esta operación."}
	case errors.Is(err, domain.ErrInvalidState):
		return Text{Title: "Operación no permitida", Message: "La reserva no está en un estado que permita esta operación."}
	case errors.Is(err, domain.ErrInvalidInterval):
		return Text{Title: "Horario inválido", Message: "La reserva debe terminar después de empezar y durar al menos 60 minutos."}
	case errors.Is(err, domain.ErrInvalidDate):
		return Text{Title: "Fecha inválida", Message: "La fecha indicada no es válida."}
	default:
		return Text{Title: "Error", Message: msgInternalError}
	}
}

// CancellationResponse ответ на отмену: тег, текст и изменённые бронирования
type CancellationResponse struct {
	Outcome      string                       `json:"outcome"`
	Title        string                       `json:"title"`
	Message      string                       `json:"message"`
	Reservations []models.ReservationResponse `json:"reservations"`
}

// FromOutcome конвертирует результат отмены в HTTP response
func FromOutcome(outcome *domain.CancellationOutcome) *CancellationResponse {
	text := OutcomeText(outcome.Tag)
	return &CancellationResponse{
		Outcome:      string(outcome.Tag),
		Title:        text.Title,
		Message:      text.Message,
		Reservations: reservationList(outcome.Mutated),
	}
}
