package cancellation

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// CancelSingleRequest отмена одного бронирования
type CancelSingleRequest struct {
	ReservationID    int64
	RequestingUserID int64
	Role             domain.Role
}

// CancelSeriesRequest отмена серии начиная с экземпляра FromStartTime
// Нулевой FromStartTime означает «все будущие экземпляры»,
// нулевой SeriesOwnerID - владельца серии для администратора и самого пользователя для клиента
type CancelSeriesRequest struct {
	RecurrenceID     uuid.UUID
	SeriesOwnerID    int64
	RequestingUserID int64
	Role             domain.Role
	FromStartTime    time.Time
}
