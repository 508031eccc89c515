package notifier

import (
	"context"
	"sync"
	"time"
)

// Async отправляет события в фоне: ошибка доставки только логируется
// и никогда не возвращается вызывающему
type Async struct {
	next    Notifier
	timeout time.Duration
	logger  Logger
	wg      sync.WaitGroup
}

// NewAsync оборачивает next; timeout ограничивает одну отправку
func NewAsync(next Notifier, timeout time.Duration, logger Logger) *Async {
	return &Async{
		next:    next,
		timeout: timeout,
		logger:  logger,
	}
}

// Notify запускает отправку и сразу возвращает nil
func (a *Async) Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error {
	// Запрос может завершиться раньше отправки
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()

		if err := a.next.Notify(sendCtx, ownerID, kind, payload); err != nil {
			a.logger.Warn("Notify: event %s for owner=%d dropped: %v", kind, ownerID, err)
		}
	}()

	return nil
}

// Wait дожидается завершения всех отправок (graceful shutdown)
func (a *Async) Wait() {
	a.wg.Wait()
}
