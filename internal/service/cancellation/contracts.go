package cancellation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	FindSeriesInstances(ctx context.Context, recurrenceID uuid.UUID, from time.Time) ([]*domain.Reservation, error)
	GetSeries(ctx context.Context, recurrenceID uuid.UUID) ([]*domain.Reservation, error)
	UpdateMany(ctx context.Context, reservations []*domain.Reservation) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier получатель доменных событий
// Ошибка доставки логируется и не влияет на результат отмены
type Notifier interface {
	Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error
}

// MetricsRecorder счётчики отмен
type MetricsRecorder interface {
	RecordCancellation(outcome string)
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
