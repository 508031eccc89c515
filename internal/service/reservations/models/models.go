package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                  int64  `json:"id"`
	ResourceID          int64  `json:"resourceId"`
	OwnerID             int64  `json:"ownerId"`
	StartTime           string `json:"startTime"` // RFC 3339
	EndTime             string `json:"endTime"`
	Kind                string `json:"kind"`
	UsesSharedAccessory bool   `json:"usesSharedAccessory"`
	Status              string `json:"status"`

	RecurrenceID      *string `json:"recurrenceId,omitempty"`
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty"`

	RescheduleSourceID *int64  `json:"rescheduleSourceId,omitempty"`
	RescheduleDeadline *string `json:"rescheduleDeadline,omitempty"`
	WasRescheduled     bool    `json:"wasRescheduled"`

	CancelledAt *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListByOwnerRequest запрос списка бронирований владельца
type ListByOwnerRequest struct {
	OwnerID          int64
	RequestingUserID int64
	Role             domain.Role
	From             time.Time
	To               time.Time
	Statuses         []domain.ReservationStatus
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                  r.ID,
		ResourceID:          r.ResourceID,
		OwnerID:             r.OwnerID,
		StartTime:           r.StartTime.Format(domain.DateTimeFormat),
		EndTime:             r.EndTime.Format(domain.DateTimeFormat),
		Kind:                string(r.Kind),
		UsesSharedAccessory: r.UsesSharedAccessory,
		Status:              string(r.Status),
		RescheduleSourceID:  r.RescheduleSourceID,
		WasRescheduled:      r.WasRescheduled,
		RecurrenceEndDate:   formatTime(r.RecurrenceEndDate),
		RescheduleDeadline:  formatTime(r.RescheduleDeadline),
		CancelledAt:         formatTime(r.CancelledAt),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	if r.RecurrenceID != nil {
		id := r.RecurrenceID.String()
		resp.RecurrenceID = &id
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}
	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateTimeFormat)
	return &s
}
