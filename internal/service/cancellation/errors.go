package cancellation

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("cancellation: reservation %w", domain.ErrNotFound)

	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = fmt.Errorf("cancellation: series %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец и не администратор
	ErrAccessDenied = fmt.Errorf("cancellation: %w", domain.ErrForbidden)

	// ErrCannotCancel возвращается, когда бронирование не активно
	ErrCannotCancel = fmt.Errorf("cancellation: reservation cannot be cancelled: %w", domain.ErrInvalidState)

	// ErrConcurrentUpdate возвращается, когда БД отклонила запись из-за конкурентного изменения
	ErrConcurrentUpdate = fmt.Errorf("cancellation: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("cancellation: internal error: %w", domain.ErrStorage)
)
