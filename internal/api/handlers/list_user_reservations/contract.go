package list_user_reservations

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
)

type ReservationService interface {
	ListByOwner(ctx context.Context, req *models.ListByOwnerRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
