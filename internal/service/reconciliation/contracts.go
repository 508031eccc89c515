package reconciliation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationRepository бронирования пользователей за период журнала
type ReservationRepository interface {
	FindByOwnersInRange(ctx context.Context, ownerIDs []int64, from, to time.Time) ([]*domain.Reservation, error)
	MarkUsed(ctx context.Context, ids []int64) (int64, error)
}

// RuleRepository постоянные правила для имён
type RuleRepository interface {
	List(ctx context.Context) ([]domain.AccessNameRule, error)
	Create(ctx context.Context, rule *domain.AccessNameRule) (*domain.AccessNameRule, error)
}

// UserDirectory справочник пользователей (внешний сервис)
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier получатель доменных событий
type Notifier interface {
	Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error
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

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
