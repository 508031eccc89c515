package reservations

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetSeries(ctx context.Context, recurrenceID uuid.UUID) ([]*domain.Reservation, error)
	FindByOwnerInPeriod(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
