package check_conflicts

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/conflicts"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// maxSlots ограничение на размер одного запроса (серия на год - 53 слота)
const maxSlots = 60

// SlotRequest слот-кандидат
type SlotRequest struct {
	ResourceID          int64  `json:"resourceId"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	UsesSharedAccessory bool   `json:"usesSharedAccessory"`
}

// CheckConflictsRequest HTTP request model
type CheckConflictsRequest struct {
	Slots []SlotRequest `json:"slots"`
}

// CheckConflictsResponse HTTP response model
type CheckConflictsResponse struct {
	Available          bool                         `json:"available"`
	ResourceConflicts  []models.ReservationResponse `json:"resourceConflicts"`
	AccessoryConflicts []models.ReservationResponse `json:"accessoryConflicts"`
}

// ToCandidateSlots конвертирует HTTP запрос в слоты-кандидаты
func (r *CheckConflictsRequest) ToCandidateSlots() ([]domain.CandidateSlot, error) {
	if len(r.Slots) == 0 {
		return nil, fmt.Errorf("%w: at least one slot is required", domain.ErrInvalidInterval)
	}
	if len(r.Slots) > maxSlots {
		return nil, fmt.Errorf("%w: at most %d slots per request", domain.ErrInvalidInterval, maxSlots)
	}

	slots := make([]domain.CandidateSlot, 0, len(r.Slots))
	for i, s := range r.Slots {
		start, err := handlers.ParseTime(fmt.Sprintf("slots[%d].startTime", i), s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
		}
		end, err := handlers.ParseTime(fmt.Sprintf("slots[%d].endTime", i), s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
		}
		if err := timeslot.ValidateInterval(start, end); err != nil {
			return nil, err
		}
		slots = append(slots, domain.CandidateSlot{
			ResourceID:          s.ResourceID,
			Start:               start,
			End:                 end,
			UsesSharedAccessory: s.UsesSharedAccessory,
		})
	}
	return slots, nil
}

// FromResult конвертирует результат проверки в HTTP response
func FromResult(result *conflicts.Result) *CheckConflictsResponse {
	return &CheckConflictsResponse{
		Available:          result.Empty(),
		ResourceConflicts:  models.FromDomainReservationList(result.ResourceConflicts).Reservations,
		AccessoryConflicts: models.FromDomainReservationList(result.AccessoryConflicts).Reservations,
	}
}
