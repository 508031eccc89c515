package domain

import "fmt"

// OutcomeTag стабильный тег результата отмены (по нему UI выбирает текст)
type OutcomeTag string

const (
	OutcomePenalized                  OutcomeTag = "PENALIZED"
	OutcomeCancelled                  OutcomeTag = "CANCELLED"
	OutcomeRescheduleReverted         OutcomeTag = "RESCHEDULE_REVERTED"
	OutcomeSeriesCancelledWithPenalty OutcomeTag = "SERIES_CANCELLED_WITH_PENALTY"
	OutcomeSeriesCancelled            OutcomeTag = "SERIES_CANCELLED"
	OutcomeNoFutureBookings           OutcomeTag = "NO_FUTURE_BOOKINGS"
)

// Validate проверяет, что тег входит в закрытый набор
func (t OutcomeTag) Validate() error {
	switch t {
	case OutcomePenalized, OutcomeCancelled, OutcomeRescheduleReverted,
		OutcomeSeriesCancelledWithPenalty, OutcomeSeriesCancelled, OutcomeNoFutureBookings:
		return nil
	default:
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidState, string(t))
	}
}

// CancellationOutcome результат отмены: тег и изменённые бронирования
// Для серии Mutated упорядочен по StartTime по возрастанию
type CancellationOutcome struct {
	Tag     OutcomeTag
	Mutated []*Reservation
}
