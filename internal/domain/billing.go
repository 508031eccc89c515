package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BillingMode периодичность выставления счетов
type BillingMode string

const (
	BillingWeekly  BillingMode = "weekly"
	BillingMonthly BillingMode = "monthly"
)

// ParseBillingMode разбирает периодичность; пустая строка - помесячно
func ParseBillingMode(s string) (BillingMode, error) {
	switch BillingMode(strings.ToLower(strings.TrimSpace(s))) {
	case BillingWeekly:
		return BillingWeekly, nil
	case "", BillingMonthly:
		return BillingMonthly, nil
	default:
		return "", fmt.Errorf("%w: unknown billing mode %q", ErrInvalidDate, s)
	}
}

// BookingLineItem строка предварительного счёта
type BookingLineItem struct {
	ReservationID int64
	ResourceID    int64
	StartTime     time.Time
	EndTime       time.Time
	Status        ReservationStatus
	Hours         decimal.Decimal
	HourlyRate    decimal.Decimal
	Amount        decimal.Decimal
}

// BillingTotals итоги: base - discount = final
type BillingTotals struct {
	Base     decimal.Decimal
	Discount decimal.Decimal
	Final    decimal.Decimal
}

// BillingPreview предварительный счёт за текущий период (ничего не сохраняется)
type BillingPreview struct {
	OwnerID     int64
	Mode        BillingMode
	PeriodStart time.Time
	PeriodEnd   time.Time
	Bookings    []BookingLineItem
	Totals      BillingTotals
}
