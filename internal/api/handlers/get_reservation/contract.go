package get_reservation

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, id, userID int64, role domain.Role) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
