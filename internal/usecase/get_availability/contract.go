package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationRepository блокирующие бронирования, пересекающие интервалы
type ReservationRepository interface {
	FindOverlapping(ctx context.Context, resourceID int64, intervals []domain.Interval) ([]*domain.Reservation, error)
	FindOverlappingAccessory(ctx context.Context, intervals []domain.Interval) ([]*domain.Reservation, error)
}

// ResourceRepository справочник консульториев
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
