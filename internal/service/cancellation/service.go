package cancellation

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
)

var tracer = otel.Tracer("github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation")

// Service отмена бронирований и серий со штрафами и возвратом переносов
type Service struct {
	repo         ReservationRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      MetricsRecorder
	timeProvider TimeProvider
	policy       domain.CancellationPolicy
	logger       Logger
}

// NewService создает новый экземпляр сервиса отмен
func NewService(
	repo ReservationRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	policy domain.CancellationPolicy,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: timeProvider,
		policy:       policy,
		logger:       logger,
	}
}

// CancelSingle отменяет одно бронирование
// Если бронирование - замена штрафного, исходное возвращается в active (обе строки в одной транзакции)
func (s *Service) CancelSingle(ctx context.Context, req *CancelSingleRequest) (*domain.CancellationOutcome, error) {
	ctx, span := tracer.Start(ctx, "cancellation.CancelSingle", trace.WithAttributes(
		attribute.Int64("reservation.id", req.ReservationID),
		attribute.Int64("user.id", req.RequestingUserID),
	))
	defer span.End()

	s.logger.Info("CancelSingle: reservation id=%d by user=%d role=%s", req.ReservationID, req.RequestingUserID, req.Role)

	now := s.timeProvider.Now()
	var decision Decision
	var ownerID int64

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронирование (в транзакции строка блокируется)
		reservation, err := s.repo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		// 2. Владелец или администратор
		if !reservation.OwnedBy(req.RequestingUserID, req.Role) {
			return ErrAccessDenied
		}
		ownerID = reservation.OwnerID

		// 3. Отменить можно только активное
		if !reservation.CanBeCancelled() {
			return fmt.Errorf("%w: reservation id=%d is %s", ErrCannotCancel, reservation.ID, reservation.Status)
		}

		// 4. Замена штрафного бронирования - возвращаем исходное
		if reservation.IsRescheduleReplacement() {
			source, err := s.repo.GetByID(txCtx, *reservation.RescheduleSourceID)
			switch {
			case err == nil && source.Status == domain.StatusCancelledWithPenalty:
				decision, err = DecideRevert(reservation, source, now)
				if err != nil {
					return err
				}
				return s.repo.UpdateMany(txCtx, decision.Mutated)
			case err == nil, errors.Is(err, domain.ErrNotFound):
				s.logger.Warn("CancelSingle: source id=%d of replacement id=%d is no longer penalized, applying timing rules",
					*reservation.RescheduleSourceID, reservation.ID)
			default:
				return err
			}
		}

		// 5-6. Штраф или бесплатная отмена по времени до начала
		decision, err = DecideSingle(reservation, now, s.policy)
		if err != nil {
			return err
		}
		return s.repo.UpdateMany(txCtx, decision.Mutated)
	})
	if err != nil {
		err = s.mapError("CancelSingle", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("cancellation.outcome", string(decision.Tag)))
	s.logger.Info("CancelSingle: reservation id=%d cancelled, outcome=%s, mutated=%d",
		req.ReservationID, decision.Tag, len(decision.Mutated))

	s.record(decision.Tag)
	kind := domain.EventReservationCancelled
	if decision.Tag == domain.OutcomeRescheduleReverted {
		kind = domain.EventRescheduleReverted
	}
	s.publish(ctx, ownerID, kind, decision)

	return decision.Outcome(), nil
}

// CancelSeries отменяет активные экземпляры серии, начинающиеся не раньше FromStartTime
// Штраф возможен только у самого раннего экземпляра; все строки обновляются в одной транзакции
func (s *Service) CancelSeries(ctx context.Context, req *CancelSeriesRequest) (*domain.CancellationOutcome, error) {
	ctx, span := tracer.Start(ctx, "cancellation.CancelSeries", trace.WithAttributes(
		attribute.String("series.id", req.RecurrenceID.String()),
		attribute.Int64("user.id", req.RequestingUserID),
	))
	defer span.End()

	s.logger.Info("CancelSeries: series=%s owner=%d by user=%d role=%s", req.RecurrenceID, req.SeriesOwnerID, req.RequestingUserID, req.Role)

	// 1. Владелец или администратор; администратор может не указывать владельца
	ownerID := req.SeriesOwnerID
	if !req.Role.IsAdmin() && ownerID == 0 {
		ownerID = req.RequestingUserID
	}
	if !req.Role.IsAdmin() && req.RequestingUserID != ownerID {
		s.logger.Warn("CancelSeries: access denied for user=%d to series=%s", req.RequestingUserID, req.RecurrenceID)
		span.SetStatus(codes.Error, ErrAccessDenied.Error())
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()
	from := req.FromStartTime
	if from.IsZero() {
		from = now
	}

	var decision Decision

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Активные экземпляры начиная с from по возрастанию
		instances, err := s.repo.FindSeriesInstances(txCtx, req.RecurrenceID, from)
		if err != nil {
			return err
		}

		// 3. Нечего отменять - проверяем, что серия вообще существует
		if len(instances) == 0 {
			series, err := s.repo.GetSeries(txCtx, req.RecurrenceID)
			if err != nil {
				return err
			}
			if len(series) == 0 {
				return ErrSeriesNotFound
			}
			if ownerID == 0 {
				ownerID = series[0].OwnerID
			}
			if series[0].OwnerID != ownerID {
				return ErrAccessDenied
			}
		} else if ownerID == 0 {
			ownerID = instances[0].OwnerID
		}

		for _, instance := range instances {
			if instance.OwnerID != ownerID {
				return fmt.Errorf("%w: series=%s belongs to another owner", ErrAccessDenied, req.RecurrenceID)
			}
		}

		// 4-5. Свёртка: штраф только у первого экземпляра
		decision, err = FoldSeries(instances, now, s.policy)
		if err != nil {
			return err
		}
		if len(decision.Mutated) == 0 {
			return nil
		}
		return s.repo.UpdateMany(txCtx, decision.Mutated)
	})
	if err != nil {
		err = s.mapError("CancelSeries", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("cancellation.outcome", string(decision.Tag)),
		attribute.Int("cancellation.mutated", len(decision.Mutated)),
	)
	s.logger.Info("CancelSeries: series=%s outcome=%s, mutated=%d", req.RecurrenceID, decision.Tag, len(decision.Mutated))

	s.record(decision.Tag)
	if decision.Tag != domain.OutcomeNoFutureBookings {
		s.publish(ctx, ownerID, domain.EventSeriesCancelled, decision)
	}

	return decision.Outcome(), nil
}

func (s *Service) mapError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidState):
		s.logger.Warn("%s: %v", op, err)
		return err
	case reservationRepo.IsConflict(err):
		s.logger.Warn("%s: rejected by concurrent update: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	default:
		s.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}

func (s *Service) record(tag domain.OutcomeTag) {
	if s.metrics != nil {
		s.metrics.RecordCancellation(string(tag))
	}
}

func (s *Service) publish(ctx context.Context, ownerID int64, kind string, decision Decision) {
	if s.notifier == nil {
		return
	}

	ids := make([]int64, 0, len(decision.Mutated))
	for _, r := range decision.Mutated {
		ids = append(ids, r.ID)
	}

	payload := map[string]interface{}{
		"outcome":         string(decision.Tag),
		"reservation_ids": ids,
	}
	if err := s.notifier.Notify(ctx, ownerID, kind, payload); err != nil {
		s.logger.Warn("notify %s for owner=%d failed: %v", kind, ownerID, err)
	}
}
