package domain

import (
	"fmt"
	"time"
)

const (
	DefaultOpenTime  = "08:00"
	DefaultCloseTime = "21:00"
)

// OpeningHours часы работы клиники; смещения от полуночи местного дня
type OpeningHours struct {
	Open  time.Duration
	Close time.Duration
}

// ParseOpeningHours разбирает часы работы в формате HH:MM
func ParseOpeningHours(open, close string) (OpeningHours, error) {
	o, err := parseClock(open)
	if err != nil {
		return OpeningHours{}, err
	}
	c, err := parseClock(close)
	if err != nil {
		return OpeningHours{}, err
	}
	if c <= o {
		return OpeningHours{}, fmt.Errorf("%w: close %s is not after open %s", ErrInvalidInterval, close, open)
	}
	return OpeningHours{Open: o, Close: c}, nil
}

// On интервал работы клиники в день date (в часовом поясе date)
func (h OpeningHours) On(date time.Time) Interval {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return Interval{Start: midnight.Add(h.Open), End: midnight.Add(h.Close)}
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidDate, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
