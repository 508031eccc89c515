package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// ResourceResponse ответ с данными консультория
type ResourceResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	HourlyRate string    `json:"hourlyRate"` // две цифры после запятой
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ResourceListResponse ответ со списком консульториев
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// UpdateResourceRequest частичное обновление: nil поля не меняются
type UpdateResourceRequest struct {
	ID         int64
	Role       domain.Role
	Name       *string
	HourlyRate *decimal.Decimal
	IsActive   *bool
}

// ApplyTo переносит заданные поля в консульторий
func (r *UpdateResourceRequest) ApplyTo(res *domain.Resource) {
	if r.Name != nil {
		res.Name = *r.Name
	}
	if r.HourlyRate != nil {
		res.HourlyRate = *r.HourlyRate
	}
	if r.IsActive != nil {
		res.IsActive = *r.IsActive
	}
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(res *domain.Resource) *ResourceResponse {
	if res == nil {
		return nil
	}
	return &ResourceResponse{
		ID:         res.ID,
		Name:       res.Name,
		HourlyRate: res.HourlyRate.StringFixed(2),
		IsActive:   res.IsActive,
		CreatedAt:  res.CreatedAt,
		UpdatedAt:  res.UpdatedAt,
	}
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(list []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{Resources: make([]ResourceResponse, 0, len(list))}
	for _, res := range list {
		resp.Resources = append(resp.Resources, *FromDomainResource(res))
	}
	return resp
}
