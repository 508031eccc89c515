package renew_series

import (
	"context"

	renewSeries "github.com/m04kA/SMC-ConsultorioService/internal/usecase/renew_series"
)

type RenewSeriesUseCase interface {
	Execute(ctx context.Context, req *renewSeries.Request) (*renewSeries.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
