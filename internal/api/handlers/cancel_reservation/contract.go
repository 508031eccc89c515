package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation"
)

type CancellationService interface {
	CancelSingle(ctx context.Context, req *cancellation.CancelSingleRequest) (*domain.CancellationOutcome, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
