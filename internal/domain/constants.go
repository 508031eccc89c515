package domain

import "time"

// Политика отмены по умолчанию
const (
	DefaultPenaltyWindowHours  = 24
	DefaultRescheduleGraceDays = 6
)

// Значения по умолчанию для серий и сверки
const (
	DefaultRecurrenceHorizonMonths = 4
	DefaultAccessToleranceMinutes  = 50
	MinReservationDuration         = 60 * time.Minute
	RecurrenceStep                 = 7 // дней между экземплярами серии
)

// Time format constants
const (
	TimeFormat     = "15:04"      // HH:MM
	DateFormat     = "2006-01-02" // YYYY-MM-DD
	DateTimeFormat = time.RFC3339
)

// BlockingStatuses статусы, занимающие консульторий и камилью
// Используется при поиске пересечений
var BlockingStatuses = []ReservationStatus{
	StatusActive,
	StatusUsed,
}

// BillableStatuses статусы, которые попадают в счёт
var BillableStatuses = []ReservationStatus{
	StatusActive,
	StatusUsed,
	StatusCancelledWithPenalty,
}
