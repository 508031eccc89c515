package billing

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrAccessDenied возвращается, когда клиент запрашивает чужой счёт
	ErrAccessDenied = fmt.Errorf("billing: %w", domain.ErrForbidden)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("billing: internal error: %w", domain.ErrStorage)
)
