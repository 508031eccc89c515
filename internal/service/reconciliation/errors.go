package reconciliation

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrAccessDenied сверка доступна только администратору
	ErrAccessDenied = fmt.Errorf("reconciliation: %w", domain.ErrForbidden)

	// ErrInvalidRow строка журнала без времени прохода
	ErrInvalidRow = fmt.Errorf("reconciliation: access log row without timestamp: %w", domain.ErrInvalidDate)

	// ErrInvalidRule некорректное правило
	ErrInvalidRule = fmt.Errorf("reconciliation: invalid name rule: %w", domain.ErrInvalidState)

	// ErrUserDirectory справочник пользователей недоступен
	ErrUserDirectory = fmt.Errorf("reconciliation: user directory unavailable: %w", domain.ErrStorage)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("reconciliation: internal error: %w", domain.ErrStorage)
)
