package reservation

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Коды ошибок PostgreSQL, которые означают пересечение бронирований
const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

// Уникальный индекс: у штрафного бронирования не больше одной действующей замены
const constraintRescheduleSource = "idx_reservations_reschedule_source"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reservation.repository: reservation %w", domain.ErrNotFound)

	// ErrOverlap возвращается, когда БД отклонила запись из-за пересечения (exclusion constraint)
	ErrOverlap = fmt.Errorf("reservation.repository: overlapping reservation rejected: %w", domain.ErrConflict)

	// ErrSourceAlreadyReplaced возвращается, когда у исходного бронирования уже есть действующая замена
	ErrSourceAlreadyReplaced = fmt.Errorf("reservation.repository: reschedule source already has a replacement: %w", domain.ErrAlreadyRescheduled)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("reservation.repository: failed to build query: %w", domain.ErrStorage)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("reservation.repository: failed to execute query: %w", domain.ErrStorage)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("reservation.repository: failed to scan row: %w", domain.ErrStorage)

	// ErrInvalidStatus возвращается при попытке сохранить недопустимый статус
	ErrInvalidStatus = errors.New("reservation.repository: invalid reservation status")
)

// IsConflict сообщает, что err - отказ БД из-за пересечения или конкурентной записи
// Используется для ошибок, пришедших не из репозитория (например, при COMMIT)
func IsConflict(err error) bool {
	if errors.Is(err, ErrOverlap) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation, pgExclusionViolation, pgSerializationFailure:
			return true
		}
	}
	return false
}

// wrapWriteError превращает отказ constraint'а в ErrOverlap или ErrSourceAlreadyReplaced, остальное - в ErrExecQuery
func wrapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation && pqErr.Constraint == constraintRescheduleSource {
		return fmt.Errorf("%w: %s", ErrSourceAlreadyReplaced, op)
	}
	if IsConflict(err) {
		if errors.As(err, &pqErr) && pqErr.Constraint != "" {
			return fmt.Errorf("%w: %s - constraint %s", ErrOverlap, op, pqErr.Constraint)
		}
		return fmt.Errorf("%w: %s", ErrOverlap, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
