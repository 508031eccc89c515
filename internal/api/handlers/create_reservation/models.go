package create_reservation

import (
	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
	createBooking "github.com/m04kA/SMC-ConsultorioService/internal/usecase/create_booking"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	OwnerID             int64  `json:"ownerId,omitempty"`
	ResourceID          int64  `json:"resourceId"`
	StartTime           string `json:"startTime"` // "2025-06-10T10:00:00-03:00"
	EndTime             string `json:"endTime"`
	UsesSharedAccessory bool   `json:"usesSharedAccessory"`
	Recurring           bool   `json:"recurring"`
	HorizonMonths       int    `json:"horizonMonths,omitempty"`
	RescheduleSourceID  *int64 `json:"rescheduleSourceId,omitempty"`
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	RecurrenceID *string                      `json:"recurrenceId,omitempty"`
	Reservations []models.ReservationResponse `json:"reservations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64, role domain.Role) (*createBooking.Request, error) {
	start, err := handlers.ParseTime("startTime", r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseTime("endTime", r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		OwnerID:             r.OwnerID,
		RequestingUserID:    userID,
		Role:                role,
		ResourceID:          r.ResourceID,
		StartTime:           start,
		EndTime:             end,
		UsesSharedAccessory: r.UsesSharedAccessory,
		Recurring:           r.Recurring,
		HorizonMonths:       r.HorizonMonths,
		RescheduleSourceID:  r.RescheduleSourceID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateReservationResponse {
	out := &CreateReservationResponse{
		Reservations: models.FromDomainReservationList(resp.Reservations).Reservations,
	}
	if resp.RecurrenceID != nil {
		id := resp.RecurrenceID.String()
		out.RecurrenceID = &id
	}
	return out
}
