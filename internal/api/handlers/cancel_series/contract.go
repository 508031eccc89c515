package cancel_series

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation"
)

type CancellationService interface {
	CancelSeries(ctx context.Context, req *cancellation.CancelSeriesRequest) (*domain.CancellationOutcome, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
