package cancellation

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Decision результат принятия решения об отмене без обращения к хранилищу
// Mutated - копии бронирований в новом состоянии, готовые к UpdateMany
type Decision struct {
	Tag     domain.OutcomeTag
	Mutated []*domain.Reservation
}

// Outcome переводит решение в результат операции
func (d Decision) Outcome() *domain.CancellationOutcome {
	return &domain.CancellationOutcome{Tag: d.Tag, Mutated: d.Mutated}
}

// DecideSingle отмена одного бронирования по времени до начала:
// меньше окна штрафа - со штрафом и сроком переноса, иначе бесплатно
func DecideSingle(r *domain.Reservation, now time.Time, policy domain.CancellationPolicy) (Decision, error) {
	if !r.CanBeCancelled() {
		return Decision{}, fmt.Errorf("%w: reservation id=%d is %s", domain.ErrInvalidState, r.ID, r.Status)
	}

	if policy.IsPenalized(r.StartTime, now) {
		return Decision{Tag: domain.OutcomePenalized, Mutated: []*domain.Reservation{penalize(r, now, policy)}}, nil
	}
	return Decision{Tag: domain.OutcomeCancelled, Mutated: []*domain.Reservation{cancelFree(r, now)}}, nil
}

// DecideRevert отмена замены штрафного бронирования: замена отменяется бесплатно,
// исходное бронирование снова становится активным без штрафа
// Mutated: [замена, исходное]
func DecideRevert(replacement, source *domain.Reservation, now time.Time) (Decision, error) {
	if !replacement.CanBeCancelled() {
		return Decision{}, fmt.Errorf("%w: reservation id=%d is %s", domain.ErrInvalidState, replacement.ID, replacement.Status)
	}
	if replacement.RescheduleSourceID == nil || *replacement.RescheduleSourceID != source.ID {
		return Decision{}, fmt.Errorf("%w: reservation id=%d does not replace id=%d",
			domain.ErrInvalidState, replacement.ID, source.ID)
	}
	if source.Status != domain.StatusCancelledWithPenalty {
		return Decision{}, fmt.Errorf("%w: source reservation id=%d is %s, not penalized",
			domain.ErrInvalidState, source.ID, source.Status)
	}

	restored := source.Clone()
	restored.Status = domain.StatusActive
	restored.CancelledAt = nil
	restored.RescheduleDeadline = nil
	restored.WasRescheduled = false

	return Decision{
		Tag:     domain.OutcomeRescheduleReverted,
		Mutated: []*domain.Reservation{cancelFree(replacement, now), restored},
	}, nil
}

// FoldSeries отмена серии одним решением в момент now
// Экземпляры обрабатываются по возрастанию начала; штраф возможен только у первого,
// остальные отменяются бесплатно независимо от их времени
func FoldSeries(instances []*domain.Reservation, now time.Time, policy domain.CancellationPolicy) (Decision, error) {
	if len(instances) == 0 {
		return Decision{Tag: domain.OutcomeNoFutureBookings, Mutated: []*domain.Reservation{}}, nil
	}

	ordered := make([]*domain.Reservation, len(instances))
	copy(ordered, instances)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	acc := seriesFold{tag: domain.OutcomeSeriesCancelled, mutated: make([]*domain.Reservation, 0, len(ordered))}
	for _, instance := range ordered {
		next, err := acc.step(instance, now, policy)
		if err != nil {
			return Decision{}, err
		}
		acc = next
	}

	return Decision{Tag: acc.tag, Mutated: acc.mutated}, nil
}

type seriesFold struct {
	tag     domain.OutcomeTag
	mutated []*domain.Reservation
}

func (f seriesFold) step(r *domain.Reservation, now time.Time, policy domain.CancellationPolicy) (seriesFold, error) {
	if !r.CanBeCancelled() {
		return f, fmt.Errorf("%w: series instance id=%d is %s", domain.ErrInvalidState, r.ID, r.Status)
	}

	first := len(f.mutated) == 0
	if first && policy.IsPenalized(r.StartTime, now) {
		return seriesFold{
			tag:     domain.OutcomeSeriesCancelledWithPenalty,
			mutated: append(f.mutated, penalize(r, now, policy)),
		}, nil
	}

	return seriesFold{tag: f.tag, mutated: append(f.mutated, cancelFree(r, now))}, nil
}

func penalize(r *domain.Reservation, now time.Time, policy domain.CancellationPolicy) *domain.Reservation {
	c := r.Clone()
	cancelledAt := now
	deadline := policy.RescheduleDeadline(now)
	c.Status = domain.StatusCancelledWithPenalty
	c.CancelledAt = &cancelledAt
	c.RescheduleDeadline = &deadline
	return c
}

func cancelFree(r *domain.Reservation, now time.Time) *domain.Reservation {
	c := r.Clone()
	cancelledAt := now
	c.Status = domain.StatusCancelledFree
	c.CancelledAt = &cancelledAt
	c.RescheduleDeadline = nil
	return c
}
