package recurrence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// SeriesBase бронирование, которое разворачивается в еженедельную серию
type SeriesBase struct {
	ResourceID          int64
	OwnerID             int64
	StartTime           time.Time
	EndTime             time.Time
	UsesSharedAccessory bool
}

// SeriesPattern шаблон существующей серии: день недели и время берутся из StartTime/EndTime
type SeriesPattern struct {
	RecurrenceID        uuid.UUID
	ResourceID          int64
	OwnerID             int64
	StartTime           time.Time
	EndTime             time.Time
	UsesSharedAccessory bool
}

// PatternOf строит шаблон из экземпляра серии
func PatternOf(instance *domain.Reservation) (SeriesPattern, error) {
	if instance.RecurrenceID == nil {
		return SeriesPattern{}, fmt.Errorf("%w: reservation id=%d is not part of a series", domain.ErrInvalidState, instance.ID)
	}
	return SeriesPattern{
		RecurrenceID:        *instance.RecurrenceID,
		ResourceID:          instance.ResourceID,
		OwnerID:             instance.OwnerID,
		StartTime:           instance.StartTime,
		EndTime:             instance.EndTime,
		UsesSharedAccessory: instance.UsesSharedAccessory,
	}, nil
}

// Renewal результат продления серии
type Renewal struct {
	Instances            []*domain.Reservation
	NewRecurrenceEndDate time.Time
}

// Generator разворачивает серии еженедельных бронирований.
// Шаг недели и горизонт в месяцах считаются по календарю клиники,
// а не по смещению, с которым пришло время
type Generator struct {
	location *time.Location
	newID    func() uuid.UUID
}

// NewGenerator создает генератор со случайными UUID серий; nil location означает UTC
func NewGenerator(location *time.Location) *Generator {
	return NewGeneratorWithIDs(location, uuid.New)
}

// NewGeneratorWithIDs создает генератор с заданным источником ID серий
func NewGeneratorWithIDs(location *time.Location, newID func() uuid.UUID) *Generator {
	if location == nil {
		location = time.UTC
	}
	return &Generator{location: location, newID: newID}
}

// GenerateSeries разворачивает base в экземпляры с шагом 7 дней,
// строго раньше base.StartTime + horizonMonths календарных месяцев
func (g *Generator) GenerateSeries(base SeriesBase, horizonMonths int) ([]*domain.Reservation, error) {
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonMonths)
	}
	if err := timeslot.ValidateInterval(base.StartTime, base.EndTime); err != nil {
		return nil, err
	}

	start, end := base.StartTime.In(g.location), base.EndTime.In(g.location)

	recurrenceID := g.newID()
	endDate := timeslot.AddMonths(start, horizonMonths)

	return expand(SeriesPattern{
		RecurrenceID:        recurrenceID,
		ResourceID:          base.ResourceID,
		OwnerID:             base.OwnerID,
		StartTime:           start,
		EndTime:             end,
		UsesSharedAccessory: base.UsesSharedAccessory,
	}, 0, endDate)
}

// RenewSeries продлевает серию: первый новый экземпляр - ближайший по шагу 7 дней
// строго после oldEndDate, новая граница - oldEndDate + horizonMonths месяцев
func (g *Generator) RenewSeries(pattern SeriesPattern, oldEndDate time.Time, horizonMonths int) (*Renewal, error) {
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonMonths)
	}
	if oldEndDate.IsZero() {
		return nil, fmt.Errorf("%w: series end date is required", domain.ErrInvalidDate)
	}
	if err := timeslot.ValidateInterval(pattern.StartTime, pattern.EndTime); err != nil {
		return nil, err
	}

	// из БД время приходит в зоне драйвера
	pattern.StartTime = pattern.StartTime.In(g.location)
	pattern.EndTime = pattern.EndTime.In(g.location)
	oldEndDate = oldEndDate.In(g.location)

	newEndDate := timeslot.AddMonths(oldEndDate, horizonMonths)

	instances, err := expand(pattern, firstStepAfter(pattern.StartTime, oldEndDate), newEndDate)
	if err != nil {
		return nil, err
	}

	return &Renewal{
		Instances:            instances,
		NewRecurrenceEndDate: newEndDate,
	}, nil
}

// firstStepAfter наименьшее k >= 0, при котором start + 7k дней строго позже after
func firstStepAfter(start, after time.Time) int {
	if start.After(after) {
		return 0
	}
	// Оценка по часам, затем уточнение календарной арифметикой (переходы на летнее время)
	k := int(after.Sub(start).Hours()/24) / domain.RecurrenceStep
	if k > 0 {
		k--
	}
	for !occurrence(start, k).After(after) {
		k++
	}
	return k
}

func occurrence(t time.Time, step int) time.Time {
	return t.AddDate(0, 0, step*domain.RecurrenceStep)
}

func expand(p SeriesPattern, fromStep int, endDate time.Time) ([]*domain.Reservation, error) {
	duration := p.EndTime.Sub(p.StartTime)
	instances := make([]*domain.Reservation, 0)

	for k := fromStep; ; k++ {
		start := occurrence(p.StartTime, k)
		if !start.Before(endDate) {
			break
		}

		recurrenceID := p.RecurrenceID
		end := endDate
		instance := &domain.Reservation{
			ResourceID:          p.ResourceID,
			OwnerID:             p.OwnerID,
			StartTime:           start,
			EndTime:             start.Add(duration),
			Kind:                domain.KindRecurring,
			UsesSharedAccessory: p.UsesSharedAccessory,
			Status:              domain.StatusActive,
			RecurrenceID:        &recurrenceID,
			RecurrenceEndDate:   &end,
		}
		if err := instance.Validate(); err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	return instances, nil
}
