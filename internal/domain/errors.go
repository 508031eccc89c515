package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Таксономия доменных ошибок. Пакеты оборачивают их своими ошибками,
// errors.Is работает на обоих уровнях
var (
	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("not found")

	// ErrForbidden пользователь не владелец и не администратор
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState операция недопустима для текущего статуса
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict пересечение с существующим бронированием (проверка или отказ БД)
	ErrConflict = errors.New("conflict")

	// ErrRenewalConflict продление серии пересекается с чужими бронированиями
	ErrRenewalConflict = errors.New("renewal conflict")

	// ErrRescheduleWindowExpired срок переноса штрафного бронирования истёк
	ErrRescheduleWindowExpired = errors.New("reschedule window expired")

	// ErrAlreadyRescheduled для штрафного бронирования уже создана замена
	ErrAlreadyRescheduled = errors.New("already rescheduled")

	// ErrInvalidDate некорректная дата
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInterval некорректный интервал
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrStorage непредвиденная ошибка хранилища
	ErrStorage = errors.New("storage error")
)

// ConflictError пересечения, найденные при создании бронирования
type ConflictError struct {
	ResourceConflicts  []*Reservation
	AccessoryConflicts []*Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %d room overlap(s) [%s], %d accessory overlap(s) [%s]",
		len(e.ResourceConflicts), reservationIDs(e.ResourceConflicts),
		len(e.AccessoryConflicts), reservationIDs(e.AccessoryConflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// RenewalConflictError экземпляры продления, которые нельзя создать
type RenewalConflictError struct {
	// Новые экземпляры, попавшие на занятое время
	Instances []*Reservation
	// Чужие бронирования, с которыми они пересекаются
	ResourceConflicts  []*Reservation
	AccessoryConflicts []*Reservation
}

func (e *RenewalConflictError) Error() string {
	return fmt.Sprintf("renewal conflict: %d instance(s) overlap existing reservations [%s]",
		len(e.Instances), reservationIDs(append(append([]*Reservation{}, e.ResourceConflicts...), e.AccessoryConflicts...)))
}

func (e *RenewalConflictError) Unwrap() error {
	return ErrRenewalConflict
}

func reservationIDs(list []*Reservation) string {
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, fmt.Sprintf("%d", r.ID))
	}
	return strings.Join(ids, ",")
}
