package renew_series

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = fmt.Errorf("renew_series: series %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец серии и не администратор
	ErrAccessDenied = fmt.Errorf("renew_series: %w", domain.ErrForbidden)

	// ErrSlotTaken возвращается, когда БД отклонила запись из-за пересечения
	ErrSlotTaken = fmt.Errorf("renew_series: slot was taken concurrently: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("renew_series: internal error: %w", domain.ErrStorage)
)
