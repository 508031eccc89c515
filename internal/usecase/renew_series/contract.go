package renew_series

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/conflicts"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/recurrence"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetSeries(ctx context.Context, recurrenceID uuid.UUID) ([]*domain.Reservation, error)
	InsertMany(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error)
	UpdateRecurrenceEndDate(ctx context.Context, recurrenceID uuid.UUID, endDate time.Time) (int64, error)
}

// ConflictChecker проверка пересечений по консульторию и камилье
type ConflictChecker interface {
	FindConflicts(ctx context.Context, slots []domain.CandidateSlot) (*conflicts.Result, error)
}

// SeriesGenerator продлевает серию
type SeriesGenerator interface {
	RenewSeries(pattern recurrence.SeriesPattern, oldEndDate time.Time, horizonMonths int) (*recurrence.Renewal, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier получатель доменных событий
type Notifier interface {
	Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error
}

// MetricsRecorder счётчик продлений
type MetricsRecorder interface {
	RecordSeriesRenewal(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
