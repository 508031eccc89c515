package cancel_series

import (
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
)

// CancelSeriesRequest HTTP request model; тело необязательно
type CancelSeriesRequest struct {
	OwnerID       int64  `json:"ownerId,omitempty"`       // по умолчанию - владелец серии
	FromStartTime string `json:"fromStartTime,omitempty"` // по умолчанию - все будущие экземпляры
}

func (r *CancelSeriesRequest) fromStartTime() (time.Time, error) {
	if r.FromStartTime == "" {
		return time.Time{}, nil
	}
	return handlers.ParseTime("fromStartTime", r.FromStartTime)
}
