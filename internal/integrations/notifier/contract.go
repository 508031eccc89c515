package notifier

import "context"

// Notifier получатель доменных событий
type Notifier interface {
	Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
