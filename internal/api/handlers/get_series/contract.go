package get_series

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
)

type ReservationService interface {
	GetSeries(ctx context.Context, recurrenceID uuid.UUID, userID int64, role domain.Role) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
