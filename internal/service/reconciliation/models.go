package reconciliation

import "github.com/m04kA/SMC-ConsultorioService/internal/domain"

// RunRequest запуск сверки журнала
type RunRequest struct {
	Rows []domain.AccessLogRow
	// Apply - отметить подтверждённые прошедшие бронирования как used
	Apply bool
	Role  domain.Role
}

// RunResult отчёт сверки и количество отмеченных бронирований
type RunResult struct {
	Report     domain.ReconciliationReport
	MarkedUsed int64
}

// CreateRuleRequest создание постоянного правила для имени
type CreateRuleRequest struct {
	RawName string
	Action  domain.NameRuleAction
	UserID  *int64
	Role    domain.Role
}
