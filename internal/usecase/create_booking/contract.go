package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/conflicts"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/recurrence"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	InsertMany(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error)
	UpdateMany(ctx context.Context, reservations []*domain.Reservation) error
}

// ResourceRepository справочник консульториев
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// UserDirectory справочник пользователей клиники
type UserDirectory interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

// ConflictChecker проверка пересечений по консульторию и камилье
type ConflictChecker interface {
	FindConflicts(ctx context.Context, slots []domain.CandidateSlot) (*conflicts.Result, error)
}

// SeriesGenerator разворачивает серию в экземпляры
type SeriesGenerator interface {
	GenerateSeries(base recurrence.SeriesBase, horizonMonths int) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier получатель доменных событий
type Notifier interface {
	Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error
}

// MetricsRecorder счётчик созданных бронирований
type MetricsRecorder interface {
	RecordReservationsCreated(kind string, count int)
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
