package reconcile_access_log

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
)

type ReconciliationService interface {
	Run(ctx context.Context, req *reconciliation.RunRequest) (*reconciliation.RunResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
