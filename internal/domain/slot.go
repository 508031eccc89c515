package domain

import "time"

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// CandidateSlot слот-кандидат для проверки пересечений
type CandidateSlot struct {
	ResourceID          int64
	Start               time.Time
	End                 time.Time
	UsesSharedAccessory bool
}

// Interval возвращает интервал слота
func (s CandidateSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// SlotOf строит слот-кандидат из бронирования
func SlotOf(r *Reservation) CandidateSlot {
	return CandidateSlot{
		ResourceID:          r.ResourceID,
		Start:               r.StartTime,
		End:                 r.EndTime,
		UsesSharedAccessory: r.UsesSharedAccessory,
	}
}
