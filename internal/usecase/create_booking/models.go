package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	OwnerID             int64 // Владелец; 0 - сам пользователь
	RequestingUserID    int64
	Role                domain.Role
	ResourceID          int64 // ID консультория
	StartTime           time.Time
	EndTime             time.Time
	UsesSharedAccessory bool
	Recurring           bool
	HorizonMonths       int    // Для серии; 0 - значение по умолчанию
	RescheduleSourceID  *int64 // Штрафное бронирование, которое заменяет новое
}

// Response созданные бронирования по возрастанию времени
type Response struct {
	Reservations []*domain.Reservation
	RecurrenceID *uuid.UUID // Только для серии
}
