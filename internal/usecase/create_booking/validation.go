package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// validateRequest валидирует входные данные запроса и определяет владельца
func validateRequest(req *Request) (int64, error) {
	if err := timeslot.ValidateInterval(req.StartTime, req.EndTime); err != nil {
		return 0, err
	}
	if req.EndTime.Sub(req.StartTime) < domain.MinReservationDuration {
		return 0, fmt.Errorf("%w: reservation must last at least %s", domain.ErrInvalidInterval, domain.MinReservationDuration)
	}

	ownerID := req.OwnerID
	if ownerID == 0 {
		ownerID = req.RequestingUserID
	}

	// Клиент бронирует только за себя
	if ownerID != req.RequestingUserID && !req.Role.IsAdmin() {
		return 0, ErrAccessDenied
	}

	return ownerID, nil
}

// validateSource проверяет, что для штрафного бронирования владельца можно создать замену
func validateSource(source *domain.Reservation, ownerID int64, now time.Time) error {
	if source.OwnerID != ownerID {
		return ErrAccessDenied
	}
	return source.CanBeRescheduledAt(now)
}

func slotsOf(instances []*domain.Reservation) []domain.CandidateSlot {
	slots := make([]domain.CandidateSlot, 0, len(instances))
	for _, r := range instances {
		slots = append(slots, domain.SlotOf(r))
	}
	return slots
}
