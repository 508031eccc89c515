package get_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда консульторий не найден
	ErrResourceNotFound = fmt.Errorf("get_availability: resource %w", domain.ErrNotFound)

	// ErrResourceInactive возвращается, когда консульторий закрыт для бронирования
	ErrResourceInactive = fmt.Errorf("get_availability: resource is not bookable: %w", domain.ErrInvalidState)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
