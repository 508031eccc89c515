package update_resource

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/resources/models"
)

// UpdateResourceRequest HTTP request model; отсутствующие поля не меняются
type UpdateResourceRequest struct {
	Name       *string          `json:"name,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourlyRate,omitempty"`
	IsActive   *bool            `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateResourceRequest) ToServiceRequest(id int64, role domain.Role) *models.UpdateResourceRequest {
	return &models.UpdateResourceRequest{
		ID:         id,
		Role:       role,
		Name:       r.Name,
		HourlyRate: r.HourlyRate,
		IsActive:   r.IsActive,
	}
}
