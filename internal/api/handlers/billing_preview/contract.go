package billing_preview

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

type BillingService interface {
	PreviewCurrentPeriod(ctx context.Context, ownerID, requestingUserID int64, role domain.Role, mode domain.BillingMode) (*domain.BillingPreview, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
