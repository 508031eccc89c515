package check_conflicts

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/conflicts"
)

type ConflictChecker interface {
	FindConflicts(ctx context.Context, slots []domain.CandidateSlot) (*conflicts.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
