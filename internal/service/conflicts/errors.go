package conflicts

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ErrInternal возвращается при ошибке хранилища во время проверки
var ErrInternal = fmt.Errorf("conflicts: %w", domain.ErrStorage)
