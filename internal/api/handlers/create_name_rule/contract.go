package create_name_rule

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
)

type ReconciliationService interface {
	CreateRule(ctx context.Context, req *reconciliation.CreateRuleRequest) (*domain.AccessNameRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
