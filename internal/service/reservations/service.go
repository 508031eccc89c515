package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// Service чтение бронирований с проверкой прав доступа
type Service struct {
	repo   ReservationRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(repo ReservationRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только свои бронирования, администратор - любые
func (s *Service) GetByID(ctx context.Context, id, userID int64, role domain.Role) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !reservation.OwnedBy(userID, role) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(reservation), nil
}

// GetSeries получает все экземпляры серии (включая отменённые) по возрастанию времени
func (s *Service) GetSeries(ctx context.Context, recurrenceID uuid.UUID, userID int64, role domain.Role) (*models.ReservationListResponse, error) {
	s.logger.Info("GetSeries: fetching series %s for user=%d", recurrenceID, userID)

	instances, err := s.repo.GetSeries(ctx, recurrenceID)
	if err != nil {
		s.logger.Error("GetSeries: repository error for series %s: %v", recurrenceID, err)
		return nil, fmt.Errorf("%w: GetSeries - repository error: %v", ErrInternal, err)
	}
	if len(instances) == 0 {
		s.logger.Warn("GetSeries: series %s not found", recurrenceID)
		return nil, ErrSeriesNotFound
	}

	if !instances[0].OwnedBy(userID, role) {
		s.logger.Warn("GetSeries: access denied for user=%d to series %s", userID, recurrenceID)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetSeries: fetched %d instance(s) of series %s", len(instances), recurrenceID)
	return models.FromDomainReservationList(instances), nil
}

// ListByOwner бронирования владельца с началом в [from, to)
// Пустой statuses означает все статусы
func (s *Service) ListByOwner(ctx context.Context, req *models.ListByOwnerRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByOwner: owner=%d, user=%d, from=%s, to=%s",
		req.OwnerID, req.RequestingUserID, timeslot.Format(req.From), timeslot.Format(req.To))

	if req.OwnerID != req.RequestingUserID && !req.Role.IsAdmin() {
		s.logger.Warn("ListByOwner: access denied for user=%d to owner=%d", req.RequestingUserID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	if err := timeslot.ValidateInterval(req.From, req.To); err != nil {
		return nil, err
	}
	for _, st := range req.Statuses {
		if err := st.Validate(); err != nil {
			return nil, err
		}
	}

	list, err := s.repo.FindByOwnerInPeriod(ctx, domain.ReservationFilter{
		OwnerID:  req.OwnerID,
		From:     req.From,
		To:       req.To,
		Statuses: req.Statuses,
	})
	if err != nil {
		s.logger.Error("ListByOwner: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: ListByOwner - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByOwner: fetched %d reservation(s) for owner=%d", len(list), req.OwnerID)
	return models.FromDomainReservationList(list), nil
}
