package create_booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ConsultorioService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ConsultorioService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/recurrence"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-ConsultorioService/internal/usecase/create_booking")

// UseCase use case для создания бронирования: разового, серии или замены штрафного
type UseCase struct {
	reservationRepo ReservationRepository
	resourceRepo    ResourceRepository
	users           UserDirectory
	checker         ConflictChecker
	generator       SeriesGenerator
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	defaultHorizon  int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	resourceRepo ResourceRepository,
	users UserDirectory,
	checker ConflictChecker,
	generator SeriesGenerator,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	defaultHorizon int,
	logger Logger,
) *UseCase {
	if defaultHorizon <= 0 {
		defaultHorizon = domain.DefaultRecurrenceHorizonMonths
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		users:           users,
		checker:         checker,
		generator:       generator,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    timeProvider,
		defaultHorizon:  defaultHorizon,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений, запись экземпляров и пометка исходного бронирования
// выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "create_booking.Execute", trace.WithAttributes(
		attribute.Int64("resource.id", req.ResourceID),
		attribute.Int64("user.id", req.RequestingUserID),
		attribute.Bool("recurring", req.Recurring),
	))
	defer span.End()

	uc.logger.Info("CreateBooking: user=%d, owner=%d, resource=%d, start=%s, end=%s, recurring=%t",
		req.RequestingUserID, req.OwnerID, req.ResourceID,
		req.StartTime.Format(domain.DateTimeFormat), req.EndTime.Format(domain.DateTimeFormat), req.Recurring)

	// 1. Валидация входных данных
	ownerID, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, uc.fail(span, err)
	}

	// 2. Консульторий существует и открыт для бронирования
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
			return nil, uc.fail(span, ErrResourceNotFound)
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, uc.fail(span, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err))
	}
	if !resource.IsBookable() {
		uc.logger.Warn("CreateBooking: resource id=%d is not bookable", req.ResourceID)
		return nil, uc.fail(span, ErrResourceInactive)
	}

	// 3. Бронирование за другого пользователя: владелец должен быть в справочнике
	if err := uc.checkOwner(ctx, req.RequestingUserID, ownerID); err != nil {
		return nil, uc.fail(span, err)
	}

	// 4. Экземпляры: одно бронирование или серия
	instances, err := uc.buildInstances(req, ownerID)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to build instances: %v", err)
		return nil, uc.fail(span, err)
	}

	now := uc.timeProvider.Now()

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Перенос: исходное бронирование перечитывается под блокировкой
		var source *domain.Reservation
		if req.RescheduleSourceID != nil {
			loaded, err := uc.reservationRepo.GetByID(txCtx, *req.RescheduleSourceID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return ErrSourceNotFound
				}
				return err
			}
			if err := validateSource(loaded, ownerID, now); err != nil {
				return err
			}
			source = loaded
			instances[0].RescheduleSourceID = &source.ID
		}

		// 5.2. Пересечения по консульторию и камилье
		result, err := uc.checker.FindConflicts(txCtx, slotsOf(instances))
		if err != nil {
			return err
		}
		if conflictErr := result.AsError(); conflictErr != nil {
			return conflictErr
		}

		// 5.3. Сохраняем экземпляры
		created, err := uc.reservationRepo.InsertMany(txCtx, instances)
		if err != nil {
			return err
		}
		instances = created

		// 5.4. Помечаем исходное бронирование
		if source != nil {
			source.WasRescheduled = true
			if err := uc.reservationRepo.UpdateMany(txCtx, []*domain.Reservation{source}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, ErrInternal) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
		} else {
			uc.logger.Warn("CreateBooking: rejected: %v", err)
		}
		return nil, uc.fail(span, mapped)
	}

	kind := instances[0].Kind
	uc.logger.Info("CreateBooking: created %d %s reservation(s) for owner=%d, first id=%d",
		len(instances), kind, ownerID, instances[0].ID)

	if uc.metrics != nil {
		uc.metrics.RecordReservationsCreated(string(kind), len(instances))
	}
	uc.publish(ctx, ownerID, instances)

	return &Response{
		Reservations: instances,
		RecurrenceID: instances[0].RecurrenceID,
	}, nil
}

// checkOwner проверяет владельца в справочнике; без справочника проверка пропускается
func (uc *UseCase) checkOwner(ctx context.Context, requestingUserID, ownerID int64) error {
	if ownerID == requestingUserID || uc.users == nil {
		return nil
	}

	if _, err := uc.users.GetUser(ctx, ownerID); err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: owner id=%d not found in user directory", ownerID)
			return ErrOwnerNotFound
		}
		uc.logger.Error("CreateBooking: failed to resolve owner id=%d: %v", ownerID, err)
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return nil
}

func (uc *UseCase) buildInstances(req *Request, ownerID int64) ([]*domain.Reservation, error) {
	if !req.Recurring {
		r := &domain.Reservation{
			ResourceID:          req.ResourceID,
			OwnerID:             ownerID,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			Kind:                domain.KindOneOff,
			UsesSharedAccessory: req.UsesSharedAccessory,
			Status:              domain.StatusActive,
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		return []*domain.Reservation{r}, nil
	}

	horizon := req.HorizonMonths
	if horizon == 0 {
		horizon = uc.defaultHorizon
	}

	return uc.generator.GenerateSeries(recurrence.SeriesBase{
		ResourceID:          req.ResourceID,
		OwnerID:             ownerID,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		UsesSharedAccessory: req.UsesSharedAccessory,
	}, horizon)
}

func (uc *UseCase) publish(ctx context.Context, ownerID int64, instances []*domain.Reservation) {
	if uc.notifier == nil {
		return
	}

	ids := make([]int64, 0, len(instances))
	for _, r := range instances {
		ids = append(ids, r.ID)
	}

	payload := map[string]interface{}{
		"kind":            string(instances[0].Kind),
		"reservation_ids": ids,
	}
	if instances[0].RecurrenceID != nil {
		payload["recurrence_id"] = instances[0].RecurrenceID.String()
	}
	if instances[0].RescheduleSourceID != nil {
		payload["reschedule_source_id"] = *instances[0].RescheduleSourceID
	}

	if err := uc.notifier.Notify(ctx, ownerID, domain.EventReservationCreated, payload); err != nil {
		uc.logger.Warn("CreateBooking: notify owner=%d failed: %v", ownerID, err)
	}
}

func (uc *UseCase) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// mapError оставляет доменные ошибки как есть, отказ БД из-за пересечения превращает в ErrSlotTaken
func mapError(err error) error {
	var conflictErr *domain.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		return err
	case reservationRepo.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyRescheduled),
		errors.Is(err, domain.ErrRescheduleWindowExpired),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidInterval):
		return err
	default:
		return fmt.Errorf("%w: CreateBooking - transaction error: %v", ErrInternal, err)
	}
}
