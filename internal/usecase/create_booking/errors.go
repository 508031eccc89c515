package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда консульторий не найден
	ErrResourceNotFound = fmt.Errorf("create_booking: resource %w", domain.ErrNotFound)

	// ErrResourceInactive возвращается, когда консульторий закрыт для бронирования
	ErrResourceInactive = fmt.Errorf("create_booking: resource is not bookable: %w", domain.ErrInvalidState)

	// ErrAccessDenied возвращается, когда клиент бронирует за другого пользователя
	// или переносит чужое бронирование
	ErrAccessDenied = fmt.Errorf("create_booking: %w", domain.ErrForbidden)

	// ErrOwnerNotFound возвращается, когда администратор бронирует за неизвестного пользователя
	ErrOwnerNotFound = fmt.Errorf("create_booking: owner %w", domain.ErrNotFound)

	// ErrDirectoryUnavailable возвращается, когда справочник пользователей не ответил
	ErrDirectoryUnavailable = errors.New("create_booking: user directory unavailable")

	// ErrSourceNotFound возвращается, когда переносимое бронирование не найдено
	ErrSourceNotFound = fmt.Errorf("create_booking: reschedule source %w", domain.ErrNotFound)

	// ErrSlotTaken возвращается, когда БД отклонила запись из-за пересечения
	ErrSlotTaken = fmt.Errorf("create_booking: slot was taken concurrently: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_booking: internal error: %w", domain.ErrStorage)
)
