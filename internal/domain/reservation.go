package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus статус бронирования консультория
type ReservationStatus string

const (
	StatusActive               ReservationStatus = "active"
	StatusCancelledWithPenalty ReservationStatus = "cancelled_with_penalty"
	StatusCancelledFree        ReservationStatus = "cancelled_free"
	StatusUsed                 ReservationStatus = "used"
	StatusRescheduled          ReservationStatus = "rescheduled"
)

// Validate проверяет, что статус входит в закрытый набор значений
func (s ReservationStatus) Validate() error {
	switch s {
	case StatusActive, StatusCancelledWithPenalty, StatusCancelledFree, StatusUsed, StatusRescheduled:
		return nil
	default:
		return fmt.Errorf("%w: unknown reservation status %q", ErrInvalidState, string(s))
	}
}

// IsBlocking возвращает true, если бронирование занимает консульторий (и камилью)
func (s ReservationStatus) IsBlocking() bool {
	switch s {
	case StatusActive, StatusUsed:
		return true
	case StatusCancelledWithPenalty, StatusCancelledFree, StatusRescheduled:
		return false
	default:
		return false
	}
}

// IsBillable возвращает true, если бронирование попадает в счёт
// Штрафные отмены тоже оплачиваются - в этом и смысл штрафа
func (s ReservationStatus) IsBillable() bool {
	switch s {
	case StatusActive, StatusUsed, StatusCancelledWithPenalty:
		return true
	case StatusCancelledFree, StatusRescheduled:
		return false
	default:
		return false
	}
}

// ReservationKind тип бронирования
type ReservationKind string

const (
	KindOneOff    ReservationKind = "one_off"
	KindRecurring ReservationKind = "recurring"
)

// Validate проверяет, что тип входит в закрытый набор значений
func (k ReservationKind) Validate() error {
	switch k {
	case KindOneOff, KindRecurring:
		return nil
	default:
		return fmt.Errorf("%w: unknown reservation kind %q", ErrInvalidState, string(k))
	}
}

// Reservation бронирование консультория
type Reservation struct {
	ID                  int64
	ResourceID          int64 // ID консультория
	OwnerID             int64 // ID владельца бронирования
	StartTime           time.Time
	EndTime             time.Time
	Kind                ReservationKind
	UsesSharedAccessory bool // Используется ли общая камилья
	Status              ReservationStatus

	// Только для серий (Kind = recurring)
	RecurrenceID      *uuid.UUID
	RecurrenceEndDate *time.Time // Исключающая верхняя граница серии

	// Перенос штрафного бронирования
	RescheduleSourceID *int64     // Бронирование, которое заменяет этот экземпляр
	RescheduleDeadline *time.Time // До какого момента можно перенести штрафное бронирование
	WasRescheduled     bool       // Для штрафного бронирования уже создана замена

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration длительность бронирования
func (r *Reservation) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// IsActive возвращает true, если бронирование активно
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusActive
}

// IsRecurring возвращает true для экземпляра серии
func (r *Reservation) IsRecurring() bool {
	return r.Kind == KindRecurring
}

// IsRescheduleReplacement возвращает true, если бронирование создано взамен штрафного
func (r *Reservation) IsRescheduleReplacement() bool {
	return r.RescheduleSourceID != nil
}

// CanBeRescheduledAt возвращает nil, если для штрафного бронирования можно создать замену в момент now
func (r *Reservation) CanBeRescheduledAt(now time.Time) error {
	if r.Status != StatusCancelledWithPenalty {
		return fmt.Errorf("%w: reservation id=%d is %s, not penalized", ErrInvalidState, r.ID, r.Status)
	}
	if r.WasRescheduled {
		return fmt.Errorf("%w: reservation id=%d", ErrAlreadyRescheduled, r.ID)
	}
	if r.RescheduleDeadline == nil || now.After(*r.RescheduleDeadline) {
		return fmt.Errorf("%w: reservation id=%d", ErrRescheduleWindowExpired, r.ID)
	}
	return nil
}

// OwnedBy проверяет доступ: владелец или администратор
func (r *Reservation) OwnedBy(userID int64, role Role) bool {
	return role == RoleAdmin || r.OwnerID == userID
}

// Validate проверяет инварианты формы бронирования
func (r *Reservation) Validate() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrInvalidDate)
	}
	if !r.EndTime.After(r.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInterval)
	}
	if r.Duration() < MinReservationDuration {
		return fmt.Errorf("%w: reservation must last at least %s", ErrInvalidInterval, MinReservationDuration)
	}
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if err := r.Status.Validate(); err != nil {
		return err
	}

	hasSeriesFields := r.RecurrenceID != nil && r.RecurrenceEndDate != nil
	noSeriesFields := r.RecurrenceID == nil && r.RecurrenceEndDate == nil

	switch r.Kind {
	case KindRecurring:
		if !hasSeriesFields {
			return fmt.Errorf("%w: recurring reservation requires recurrence id and end date", ErrInvalidState)
		}
	case KindOneOff:
		if !noSeriesFields {
			return fmt.Errorf("%w: one-off reservation cannot carry recurrence fields", ErrInvalidState)
		}
	}

	if r.RescheduleDeadline != nil && r.Status != StatusCancelledWithPenalty {
		return fmt.Errorf("%w: reschedule deadline is only valid for penalized reservations", ErrInvalidState)
	}

	return nil
}

// Clone возвращает глубокую копию бронирования
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	if r.RecurrenceID != nil {
		id := *r.RecurrenceID
		c.RecurrenceID = &id
	}
	c.RecurrenceEndDate = cloneTime(r.RecurrenceEndDate)
	c.RescheduleDeadline = cloneTime(r.RescheduleDeadline)
	c.CancelledAt = cloneTime(r.CancelledAt)
	if r.RescheduleSourceID != nil {
		id := *r.RescheduleSourceID
		c.RescheduleSourceID = &id
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ReservationFilter фильтр выборки бронирований владельца
type ReservationFilter struct {
	OwnerID  int64
	From     time.Time // включительно
	To       time.Time // исключительно
	Statuses []ReservationStatus
}
