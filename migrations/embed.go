// Package migrations схема БД, встроенная в бинарник cmd/migrate
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
