package renew_series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ConsultorioService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/recurrence"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-ConsultorioService/internal/usecase/renew_series")

// Значения метки result счётчика продлений
const (
	resultRenewed  = "renewed"
	resultConflict = "conflict"
	resultFailed   = "failed"
)

// UseCase use case для продления серии на следующий горизонт
type UseCase struct {
	reservationRepo ReservationRepository
	checker         ConflictChecker
	generator       SeriesGenerator
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsRecorder
	defaultHorizon  int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	checker ConflictChecker,
	generator SeriesGenerator,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	defaultHorizon int,
	logger Logger,
) *UseCase {
	if defaultHorizon <= 0 {
		defaultHorizon = domain.DefaultRecurrenceHorizonMonths
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		checker:         checker,
		generator:       generator,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		defaultHorizon:  defaultHorizon,
		logger:          logger,
	}
}

// Execute продлевает серию: все новые экземпляры создаются или не создаётся ни один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "renew_series.Execute", trace.WithAttributes(
		attribute.String("recurrence.id", req.RecurrenceID.String()),
		attribute.Int64("user.id", req.RequestingUserID),
	))
	defer span.End()

	uc.logger.Info("RenewSeries: series %s by user=%d role=%s", req.RecurrenceID, req.RequestingUserID, req.Role)

	horizon := req.HorizonMonths
	if horizon == 0 {
		horizon = uc.defaultHorizon
	}

	var (
		ownerID int64
		renewal *recurrence.Renewal
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем серию
		series, err := uc.reservationRepo.GetSeries(txCtx, req.RecurrenceID)
		if err != nil {
			return err
		}
		if len(series) == 0 {
			return ErrSeriesNotFound
		}

		// 2. Владелец или администратор
		if !series[0].OwnedBy(req.RequestingUserID, req.Role) {
			return ErrAccessDenied
		}
		ownerID = series[0].OwnerID

		// 3. Шаблон по самому раннему экземпляру, граница - максимальная из сохранённых
		pattern, err := recurrence.PatternOf(series[0])
		if err != nil {
			return err
		}
		oldEnd, err := seriesEndDate(series)
		if err != nil {
			return err
		}

		renewal, err = uc.generator.RenewSeries(pattern, oldEnd, horizon)
		if err != nil {
			return err
		}

		// 4. Пересечения: при любом конфликте не создаётся ни один экземпляр
		slots := slotsOf(renewal.Instances)
		result, err := uc.checker.FindConflicts(txCtx, slots)
		if err != nil {
			return err
		}
		if !result.Empty() {
			return &domain.RenewalConflictError{
				Instances:          instancesAt(renewal.Instances, result.ConflictingSlots(slots)),
				ResourceConflicts:  result.ResourceConflicts,
				AccessoryConflicts: result.AccessoryConflicts,
			}
		}

		// 5. Сохраняем новые экземпляры и сдвигаем границу всей серии
		if len(renewal.Instances) > 0 {
			created, err := uc.reservationRepo.InsertMany(txCtx, renewal.Instances)
			if err != nil {
				return err
			}
			renewal.Instances = created
		}

		if _, err := uc.reservationRepo.UpdateRecurrenceEndDate(txCtx, req.RecurrenceID, renewal.NewRecurrenceEndDate); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		mapped := mapError(err)
		uc.record(mapped)
		if errors.Is(mapped, ErrInternal) {
			uc.logger.Error("RenewSeries: series %s failed: %v", req.RecurrenceID, err)
		} else {
			uc.logger.Warn("RenewSeries: series %s rejected: %v", req.RecurrenceID, err)
		}
		span.RecordError(mapped)
		span.SetStatus(codes.Error, mapped.Error())
		return nil, mapped
	}

	uc.record(nil)
	uc.logger.Info("RenewSeries: series %s renewed with %d instance(s) until %s",
		req.RecurrenceID, len(renewal.Instances), renewal.NewRecurrenceEndDate.Format(domain.DateTimeFormat))

	uc.publish(ctx, ownerID, req.RecurrenceID, renewal)

	return &Response{
		RecurrenceID:         req.RecurrenceID,
		Instances:            renewal.Instances,
		NewRecurrenceEndDate: renewal.NewRecurrenceEndDate,
	}, nil
}

func (uc *UseCase) record(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.RecordSeriesRenewal(resultRenewed)
	case errors.Is(err, domain.ErrRenewalConflict), errors.Is(err, domain.ErrConflict):
		uc.metrics.RecordSeriesRenewal(resultConflict)
	default:
		uc.metrics.RecordSeriesRenewal(resultFailed)
	}
}

func (uc *UseCase) publish(ctx context.Context, ownerID int64, recurrenceID uuid.UUID, renewal *recurrence.Renewal) {
	if uc.notifier == nil {
		return
	}

	ids := make([]int64, 0, len(renewal.Instances))
	for _, r := range renewal.Instances {
		ids = append(ids, r.ID)
	}

	payload := map[string]interface{}{
		"recurrence_id":       recurrenceID.String(),
		"reservation_ids":     ids,
		"recurrence_end_date": renewal.NewRecurrenceEndDate.Format(domain.DateTimeFormat),
	}
	if err := uc.notifier.Notify(ctx, ownerID, domain.EventSeriesRenewed, payload); err != nil {
		uc.logger.Warn("RenewSeries: notify owner=%d failed: %v", ownerID, err)
	}
}

// seriesEndDate максимальная RecurrenceEndDate среди экземпляров серии
func seriesEndDate(series []*domain.Reservation) (time.Time, error) {
	var end time.Time
	for _, r := range series {
		if r.RecurrenceEndDate != nil && r.RecurrenceEndDate.After(end) {
			end = *r.RecurrenceEndDate
		}
	}
	if end.IsZero() {
		return time.Time{}, fmt.Errorf("%w: series has no end date", domain.ErrInvalidState)
	}
	return end, nil
}

func slotsOf(instances []*domain.Reservation) []domain.CandidateSlot {
	slots := make([]domain.CandidateSlot, 0, len(instances))
	for _, r := range instances {
		slots = append(slots, domain.SlotOf(r))
	}
	return slots
}

// instancesAt экземпляры, чьи слоты попали в список конфликтующих
func instancesAt(instances []*domain.Reservation, slots []domain.CandidateSlot) []*domain.Reservation {
	starts := make(map[int64]struct{}, len(slots))
	for _, s := range slots {
		starts[s.Start.UnixNano()] = struct{}{}
	}
	out := make([]*domain.Reservation, 0, len(slots))
	for _, r := range instances {
		if _, ok := starts[r.StartTime.UnixNano()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// mapError оставляет доменные ошибки как есть, отказ БД из-за пересечения превращает в ErrSlotTaken
func mapError(err error) error {
	var renewalErr *domain.RenewalConflictError
	switch {
	case errors.As(err, &renewalErr):
		return err
	case reservationRepo.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidInterval):
		return err
	default:
		return fmt.Errorf("%w: RenewSeries - transaction error: %v", ErrInternal, err)
	}
}
