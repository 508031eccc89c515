package accessrule

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

const pgUniqueViolation = "23505"

var (
	// ErrDuplicateRule возвращается, когда правило для этого имени уже существует
	ErrDuplicateRule = fmt.Errorf("accessrule.repository: rule for this name already exists: %w", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("accessrule.repository: failed to build query: %w", domain.ErrStorage)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("accessrule.repository: failed to execute query: %w", domain.ErrStorage)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("accessrule.repository: failed to scan row: %w", domain.ErrStorage)
)
