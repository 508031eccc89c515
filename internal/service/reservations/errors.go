package reservations

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reservations: reservation %w", domain.ErrNotFound)

	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = fmt.Errorf("reservations: series %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("reservations: %w", domain.ErrForbidden)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("reservations: internal error: %w", domain.ErrStorage)
)
