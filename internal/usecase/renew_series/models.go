package renew_series

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Request модель запроса на продление серии
type Request struct {
	RecurrenceID     uuid.UUID
	RequestingUserID int64
	Role             domain.Role
	HorizonMonths    int // 0 - значение по умолчанию
}

// Response новые экземпляры и новая граница серии
type Response struct {
	RecurrenceID         uuid.UUID
	Instances            []*domain.Reservation
	NewRecurrenceEndDate time.Time
}
