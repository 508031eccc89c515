package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// UseCase сетка свободных часов консульториев на один день
type UseCase struct {
	reservationRepo ReservationRepository
	resourceRepo    ResourceRepository
	hours           domain.OpeningHours
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	resourceRepo ResourceRepository,
	hours domain.OpeningHours,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		hours:           hours,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute строит часовые слоты дня и отмечает занятые
// Слоты, начавшиеся до текущего момента, не возвращаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: resource=%d, date=%s", req.ResourceID, req.Date.Format(domain.DateFormat))

	if req.ResourceID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: resource and date are required", domain.ErrInvalidDate)
	}

	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailability: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.IsBookable() {
		uc.logger.Warn("GetAvailability: resource id=%d is not bookable", req.ResourceID)
		return nil, ErrResourceInactive
	}

	resp := &Response{
		ResourceID: req.ResourceID,
		Date:       timeslot.StartOfDay(req.Date),
		Slots:      []Slot{},
	}

	slots := generateSlots(uc.hours.On(req.Date), uc.timeProvider.Now())
	if len(slots) == 0 {
		uc.logger.Info("GetAvailability: no upcoming slots for resource=%d on %s",
			req.ResourceID, req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	day := []domain.Interval{{Start: slots[0].Start, End: slots[len(slots)-1].End}}

	busy, err := uc.reservationRepo.FindOverlapping(ctx, req.ResourceID, day)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}
	busyAccessory, err := uc.reservationRepo.FindOverlappingAccessory(ctx, day)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get accessory reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get accessory reservations: %v", ErrInternal, err)
	}

	for i := range slots {
		slots[i].Available = !overlapsAny(slots[i], busy)
		slots[i].AccessoryAvailable = !overlapsAny(slots[i], busyAccessory)
	}
	resp.Slots = slots

	uc.logger.Info("GetAvailability: generated %d slots for resource=%d, busy=%d",
		len(slots), req.ResourceID, len(busy))
	return resp, nil
}

// generateSlots режет рабочий день на слоты минимальной длительности
// Хвост короче слота отбрасывается
func generateSlots(day domain.Interval, now time.Time) []Slot {
	slots := make([]Slot, 0)
	for start := day.Start; !start.Add(domain.MinReservationDuration).After(day.End); start = start.Add(domain.MinReservationDuration) {
		if start.Before(now) {
			continue
		}
		slots = append(slots, Slot{Start: start, End: start.Add(domain.MinReservationDuration)})
	}
	return slots
}

func overlapsAny(slot Slot, reservations []*domain.Reservation) bool {
	for _, r := range reservations {
		if timeslot.Overlaps(slot.Start, slot.End, r.StartTime, r.EndTime) {
			return true
		}
	}
	return false
}
