package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	getAvailability "github.com/m04kA/SMC-ConsultorioService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"`
	Slots      []Slot `json:"slots"`
}

// Slot часовой слот
type Slot struct {
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	Available          bool   `json:"available"`
	AccessoryAvailable bool   `json:"accessoryAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = Slot{
			StartTime:          s.Start.Format(domain.DateTimeFormat),
			EndTime:            s.End.Format(domain.DateTimeFormat),
			Available:          s.Available,
			AccessoryAvailable: s.AccessoryAvailable,
		}
	}

	return &AvailabilityResponse{
		ResourceID: resp.ResourceID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      slots,
	}
}

// ToUseCaseRequest разбирает дату YYYY-MM-DD в часовом поясе клиники
func ToUseCaseRequest(resourceID int64, dateStr string, loc *time.Location) (*getAvailability.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return &getAvailability.Request{ResourceID: resourceID, Date: date}, nil
}
