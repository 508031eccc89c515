package recurrence

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ErrInvalidHorizon возвращается, когда горизонт серии не положительный
var ErrInvalidHorizon = fmt.Errorf("recurrence: horizon must be positive: %w", domain.ErrInvalidInterval)
