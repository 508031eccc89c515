package resource

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда консульторий не найден
	ErrResourceNotFound = fmt.Errorf("resource.repository: resource %w", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("resource.repository: failed to build query: %w", domain.ErrStorage)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("resource.repository: failed to execute query: %w", domain.ErrStorage)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("resource.repository: failed to scan row: %w", domain.ErrStorage)
)
