package domain

// Типы событий, которые публикуются в Notifier
const (
	EventReservationCreated     = "reservation.created"
	EventReservationCancelled   = "reservation.cancelled"
	EventRescheduleReverted     = "reservation.reschedule_reverted"
	EventSeriesCancelled        = "series.cancelled"
	EventSeriesRenewed          = "series.renewed"
	EventReservationsMarkedUsed = "reservation.used"
)
