package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource бронируемый консульторий с почасовой ставкой
type Resource struct {
	ID         int64
	Name       string
	HourlyRate decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsBookable возвращает true, если консульторий можно бронировать
func (r *Resource) IsBookable() bool {
	return r.IsActive
}
