package timeslot

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Granularity гранулярность периода
type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// Period полуоткрытый период [Start, End)
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains проверяет, что t попадает в период
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Соприкосновение концами пересечением не считается
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateInterval проверяет, что интервал задан и end > start
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", domain.ErrInvalidDate)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end %s is not after start %s",
			domain.ErrInvalidInterval, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// StartOfDay полночь дня date в его часовом поясе
func StartOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

// WeekOf начало ISO-недели (понедельник 00:00), в которую попадает date
func WeekOf(date time.Time) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("%w: zero date", domain.ErrInvalidDate)
	}
	// Sunday = 0 -> 6 дней от понедельника
	offset := (int(date.Weekday()) + 6) % 7
	return StartOfDay(date).AddDate(0, 0, -offset), nil
}

// PeriodBounds границы недели или месяца, содержащего date
func PeriodBounds(date time.Time, granularity Granularity) (Period, error) {
	if date.IsZero() {
		return Period{}, fmt.Errorf("%w: zero date", domain.ErrInvalidDate)
	}

	switch granularity {
	case Weekly:
		start, err := WeekOf(date)
		if err != nil {
			return Period{}, err
		}
		return Period{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case Monthly:
		start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		return Period{Start: start, End: start.AddDate(0, 1, 0)}, nil
	default:
		return Period{}, fmt.Errorf("%w: unknown granularity %q", domain.ErrInvalidDate, string(granularity))
	}
}

// AddMonths календарное прибавление месяцев с прижатием к концу месяца
// (31 января + 1 месяц = 28/29 февраля, а не 3 марта как у time.AddDate)
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	firstOfTarget := time.Date(y, m+time.Month(months), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	lastDay := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), t.Location())
	if d > lastDay {
		d = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Format дата и время в формате, который показывает UI
func Format(t time.Time) string {
	return t.Format(domain.DateFormat + " " + domain.TimeFormat)
}
