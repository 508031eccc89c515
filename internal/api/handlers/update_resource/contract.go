package update_resource

import (
	"context"

	"github.com/m04kA/SMC-ConsultorioService/internal/service/resources/models"
)

type ResourceService interface {
	Update(ctx context.Context, req *models.UpdateResourceRequest) (*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
