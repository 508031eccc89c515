package conflicts

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationRepository поиск пересекающихся бронирований
type ReservationRepository interface {
	FindOverlapping(ctx context.Context, resourceID int64, intervals []domain.Interval) ([]*domain.Reservation, error)
	FindOverlappingAccessory(ctx context.Context, intervals []domain.Interval) ([]*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
