package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationRepository выборка бронирований владельца за период
type ReservationRepository interface {
	FindByOwnerInPeriod(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// RateTable почасовые ставки консульториев
type RateTable interface {
	HourlyRate(ctx context.Context, resourceID int64) (decimal.Decimal, error)
}

// TransactionManager чтения счёта из одного снимка БД
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// DiscountPolicy правило скидки; калькулятор только вычитает её из суммы
type DiscountPolicy interface {
	Discount(bookingCount int, base decimal.Decimal) decimal.Decimal
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
