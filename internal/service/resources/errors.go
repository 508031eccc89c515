package resources

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда консульторий не найден
	ErrResourceNotFound = fmt.Errorf("resources: resource %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда изменять справочник пытается не администратор
	ErrAccessDenied = fmt.Errorf("resources: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resources: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("resources: internal error: %w", domain.ErrStorage)
)
