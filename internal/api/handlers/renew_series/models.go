package renew_series

import (
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
	renewSeries "github.com/m04kA/SMC-ConsultorioService/internal/usecase/renew_series"
)

// RenewSeriesRequest HTTP request model; тело необязательно
type RenewSeriesRequest struct {
	HorizonMonths int `json:"horizonMonths,omitempty"`
}

// RenewSeriesResponse HTTP response model
type RenewSeriesResponse struct {
	RecurrenceID         string                       `json:"recurrenceId"`
	NewRecurrenceEndDate string                       `json:"newRecurrenceEndDate"`
	Reservations         []models.ReservationResponse `json:"reservations"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *renewSeries.Response) *RenewSeriesResponse {
	return &RenewSeriesResponse{
		RecurrenceID:         resp.RecurrenceID.String(),
		NewRecurrenceEndDate: resp.NewRecurrenceEndDate.Format(domain.DateTimeFormat),
		Reservations:         models.FromDomainReservationList(resp.Instances).Reservations,
	}
}
