package conflicts

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// Result пересечения с существующими бронированиями
// Списки не объединяются: конфликт по консульторию и по камилье сообщаются отдельно
type Result struct {
	ResourceConflicts  []*domain.Reservation
	AccessoryConflicts []*domain.Reservation
}

// Empty возвращает true, если набор слотов можно сохранять
func (r *Result) Empty() bool {
	return len(r.ResourceConflicts) == 0 && len(r.AccessoryConflicts) == 0
}

// AsError возвращает *domain.ConflictError или nil, если пересечений нет
func (r *Result) AsError() error {
	if r.Empty() {
		return nil
	}
	return &domain.ConflictError{
		ResourceConflicts:  r.ResourceConflicts,
		AccessoryConflicts: r.AccessoryConflicts,
	}
}

// Checker проверка пересечений по консульторию и общей камилье
// Проверка рекомендательная: окончательно пересечения отсекает exclusion constraint в БД
type Checker struct {
	repo   ReservationRepository
	logger Logger
}

// NewChecker создает новый экземпляр проверки пересечений
func NewChecker(repo ReservationRepository, logger Logger) *Checker {
	return &Checker{
		repo:   repo,
		logger: logger,
	}
}

// FindConflicts ищет блокирующие бронирования, пересекающиеся с кандидатами
// Один запрос на каждый консульторий и один запрос по камилье (если она нужна хоть одному слоту)
func (c *Checker) FindConflicts(ctx context.Context, slots []domain.CandidateSlot) (*Result, error) {
	result := &Result{
		ResourceConflicts:  []*domain.Reservation{},
		AccessoryConflicts: []*domain.Reservation{},
	}
	if len(slots) == 0 {
		return result, nil
	}

	// 1. Валидируем интервалы и группируем по консульториям
	byResource := make(map[int64][]domain.Interval)
	resourceOrder := make([]int64, 0)
	accessoryIntervals := make([]domain.Interval, 0)

	for _, slot := range slots {
		if err := timeslot.ValidateInterval(slot.Start, slot.End); err != nil {
			return nil, err
		}
		if _, ok := byResource[slot.ResourceID]; !ok {
			resourceOrder = append(resourceOrder, slot.ResourceID)
		}
		byResource[slot.ResourceID] = append(byResource[slot.ResourceID], slot.Interval())
		if slot.UsesSharedAccessory {
			accessoryIntervals = append(accessoryIntervals, slot.Interval())
		}
	}

	// 2. Пересечения по консульториям
	for _, resourceID := range resourceOrder {
		found, err := c.repo.FindOverlapping(ctx, resourceID, byResource[resourceID])
		if err != nil {
			c.logger.Error("FindConflicts: failed to query resource=%d: %v", resourceID, err)
			return nil, fmt.Errorf("%w: FindConflicts - resource=%d: %v", ErrInternal, resourceID, err)
		}
		result.ResourceConflicts = append(result.ResourceConflicts, found...)
	}

	// 3. Пересечения по камилье во всех консульториях
	if len(accessoryIntervals) > 0 {
		found, err := c.repo.FindOverlappingAccessory(ctx, accessoryIntervals)
		if err != nil {
			c.logger.Error("FindConflicts: failed to query shared accessory: %v", err)
			return nil, fmt.Errorf("%w: FindConflicts - accessory: %v", ErrInternal, err)
		}
		result.AccessoryConflicts = found
	}

	result.ResourceConflicts = dedupe(result.ResourceConflicts)
	result.AccessoryConflicts = dedupe(result.AccessoryConflicts)

	if !result.Empty() {
		c.logger.Info("FindConflicts: %d slot(s) checked, %d room and %d accessory conflict(s)",
			len(slots), len(result.ResourceConflicts), len(result.AccessoryConflicts))
	}

	return result, nil
}

// ConflictingSlots возвращает кандидатов, которые пересекаются с найденными бронированиями
func (r *Result) ConflictingSlots(slots []domain.CandidateSlot) []domain.CandidateSlot {
	out := make([]domain.CandidateSlot, 0)
	for _, slot := range slots {
		if slotHits(slot, r) {
			out = append(out, slot)
		}
	}
	return out
}

func slotHits(slot domain.CandidateSlot, r *Result) bool {
	for _, res := range r.ResourceConflicts {
		if res.ResourceID == slot.ResourceID && timeslot.Overlaps(slot.Start, slot.End, res.StartTime, res.EndTime) {
			return true
		}
	}
	if !slot.UsesSharedAccessory {
		return false
	}
	for _, res := range r.AccessoryConflicts {
		if timeslot.Overlaps(slot.Start, slot.End, res.StartTime, res.EndTime) {
			return true
		}
	}
	return false
}

func dedupe(list []*domain.Reservation) []*domain.Reservation {
	seen := make(map[int64]struct{}, len(list))
	out := make([]*domain.Reservation, 0, len(list))
	for _, r := range list {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
