package resources

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ResourceRepository интерфейс репозитория консульториев
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
