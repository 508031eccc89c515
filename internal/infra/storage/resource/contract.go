package resource

import "github.com/m04kA/SMC-ConsultorioService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
