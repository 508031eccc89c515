package domain

import "time"

// CancellationPolicy параметры политики отмены
type CancellationPolicy struct {
	// Отмена менее чем за PenaltyWindow до начала - со штрафом
	PenaltyWindow time.Duration
	// Сколько календарных дней после штрафной отмены можно создать бесплатную замену
	RescheduleGraceDays int
}

// DefaultCancellationPolicy политика по умолчанию: 24 часа и 6 дней
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		PenaltyWindow:       DefaultPenaltyWindowHours * time.Hour,
		RescheduleGraceDays: DefaultRescheduleGraceDays,
	}
}

// IsPenalized строгое сравнение: ровно за 24 часа отмена ещё бесплатная
func (p CancellationPolicy) IsPenalized(startTime, now time.Time) bool {
	return startTime.Sub(now) < p.PenaltyWindow
}

// RescheduleDeadline крайний срок переноса для отмены в момент cancelledAt
func (p CancellationPolicy) RescheduleDeadline(cancelledAt time.Time) time.Time {
	return cancelledAt.AddDate(0, 0, p.RescheduleGraceDays)
}
