package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// Service предварительный счёт за текущий период
// Только чтение: счета и платежи этим сервисом не создаются
type Service struct {
	repo         ReservationRepository
	rates        RateTable
	txManager    TransactionManager
	discount     DiscountPolicy
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса предварительного счёта
func NewService(
	repo ReservationRepository,
	rates RateTable,
	txManager TransactionManager,
	discount DiscountPolicy,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		repo:         repo,
		rates:        rates,
		txManager:    txManager,
		discount:     discount,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

var secondsPerHour = decimal.NewFromInt(3600)

// PreviewCurrentPeriod считает сумму за текущую неделю или месяц владельца
// Штрафные отмены входят в счёт, бесплатные отмены и перенесённые - нет
func (s *Service) PreviewCurrentPeriod(ctx context.Context, ownerID, requestingUserID int64, role domain.Role, mode domain.BillingMode) (*domain.BillingPreview, error) {
	s.logger.Info("PreviewCurrentPeriod: owner=%d mode=%s by user=%d", ownerID, mode, requestingUserID)

	// 1. Клиент видит только свой счёт
	if !role.IsAdmin() && ownerID != requestingUserID {
		s.logger.Warn("PreviewCurrentPeriod: access denied for user=%d to owner=%d", requestingUserID, ownerID)
		return nil, ErrAccessDenied
	}

	// 2. Границы периода в часовом поясе клиники
	granularity := timeslot.Monthly
	if mode == domain.BillingWeekly {
		granularity = timeslot.Weekly
	}
	period, err := timeslot.PeriodBounds(s.timeProvider.Now().In(s.location), granularity)
	if err != nil {
		return nil, err
	}

	// 3. Бронирования и ставки читаются в одной транзакции только для чтения
	var (
		reservations []*domain.Reservation
		rates        = make(map[int64]decimal.Decimal)
	)
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByOwnerInPeriod(txCtx, domain.ReservationFilter{
			OwnerID:  ownerID,
			From:     period.Start,
			To:       period.End,
			Statuses: domain.BillableStatuses,
		})
		if err != nil {
			return fmt.Errorf("reservations for owner=%d: %w", ownerID, err)
		}
		reservations = found

		// одна выборка ставки на консульторий
		for _, r := range found {
			if _, ok := rates[r.ResourceID]; ok || !r.Status.IsBillable() {
				continue
			}
			rate, err := s.rates.HourlyRate(txCtx, r.ResourceID)
			if err != nil {
				return fmt.Errorf("rate for resource=%d: %w", r.ResourceID, err)
			}
			rates[r.ResourceID] = rate
		}
		return nil
	})
	if err != nil {
		s.logger.Error("PreviewCurrentPeriod: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: PreviewCurrentPeriod - %v", ErrInternal, err)
	}

	// 4. Стоимость каждой строки: ставка x часы
	items := make([]domain.BookingLineItem, 0, len(reservations))
	base := decimal.Zero

	for _, r := range reservations {
		if !r.Status.IsBillable() {
			continue
		}

		rate := rates[r.ResourceID]
		hours := decimal.NewFromInt(int64(r.Duration() / time.Second)).Div(secondsPerHour)
		amount := rate.Mul(hours).Round(2)
		base = base.Add(amount)

		items = append(items, domain.BookingLineItem{
			ReservationID: r.ID,
			ResourceID:    r.ResourceID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Status:        r.Status,
			Hours:         hours.Round(2),
			HourlyRate:    rate,
			Amount:        amount,
		})
	}

	// 5. Скидка внешнего правила, прижатая к [0, base]
	discount := s.discount.Discount(len(items), base)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(base) {
		discount = base
	}

	preview := &domain.BillingPreview{
		OwnerID:     ownerID,
		Mode:        mode,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Bookings:    items,
		Totals: domain.BillingTotals{
			Base:     base,
			Discount: discount,
			Final:    base.Sub(discount),
		},
	}

	s.logger.Info("PreviewCurrentPeriod: owner=%d period=%s..%s bookings=%d final=%s",
		ownerID, period.Start.Format(domain.DateFormat), period.End.Format(domain.DateFormat), len(items), preview.Totals.Final.StringFixed(2))

	return preview, nil
}
