package billing_preview

import (
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// LineItemResponse строка предварительного счёта; суммы - строки с двумя знаками
type LineItemResponse struct {
	ReservationID int64  `json:"reservationId"`
	ResourceID    int64  `json:"resourceId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Status        string `json:"status"`
	Hours         string `json:"hours"`
	HourlyRate    string `json:"hourlyRate"`
	Amount        string `json:"amount"`
}

// TotalsResponse итоги счёта
type TotalsResponse struct {
	Base     string `json:"base"`
	Discount string `json:"discount"`
	Final    string `json:"final"`
}

// BillingPreviewResponse HTTP response model
type BillingPreviewResponse struct {
	OwnerID     int64              `json:"ownerId"`
	Mode        string             `json:"mode"`
	PeriodStart string             `json:"periodStart"`
	PeriodEnd   string             `json:"periodEnd"`
	Bookings    []LineItemResponse `json:"bookings"`
	Totals      TotalsResponse     `json:"totals"`
}

// FromDomain конвертирует предварительный счёт в HTTP response
func FromDomain(p *domain.BillingPreview) *BillingPreviewResponse {
	items := make([]LineItemResponse, 0, len(p.Bookings))
	for _, b := range p.Bookings {
		items = append(items, LineItemResponse{
			ReservationID: b.ReservationID,
			ResourceID:    b.ResourceID,
			StartTime:     b.StartTime.Format(domain.DateTimeFormat),
			EndTime:       b.EndTime.Format(domain.DateTimeFormat),
			Status:        string(b.Status),
			Hours:         b.Hours.StringFixed(2),
			HourlyRate:    b.HourlyRate.StringFixed(2),
			Amount:        b.Amount.StringFixed(2),
		})
	}

	return &BillingPreviewResponse{
		OwnerID:     p.OwnerID,
		Mode:        string(p.Mode),
		PeriodStart: p.PeriodStart.Format(domain.DateTimeFormat),
		PeriodEnd:   p.PeriodEnd.Format(domain.DateTimeFormat),
		Bookings:    items,
		Totals: TotalsResponse{
			Base:     p.Totals.Base.StringFixed(2),
			Discount: p.Totals.Discount.StringFixed(2),
			Final:    p.Totals.Final.StringFixed(2),
		},
	}
}
