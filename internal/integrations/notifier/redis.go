package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream поток событий по умолчанию
const DefaultStream = "consultorio:events"

// Publisher публикует события в Redis Stream; доставку пользователю выполняет внешний потребитель
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

// NewPublisher создает публикатор; maxLen > 0 ограничивает длину потока (приблизительно)
func NewPublisher(client *redis.Client, stream string, maxLen int64) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		now:    time.Now,
	}
}

// Notify добавляет событие в поток
func (p *Publisher) Notify(ctx context.Context, ownerID int64, kind string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodePayload, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"kind":        kind,
			"owner_id":    strconv.FormatInt(ownerID, 10),
			"payload":     string(body),
			"occurred_at": p.now().UTC().Format(time.RFC3339Nano),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("%w: stream=%s kind=%s: %v", ErrPublish, p.stream, kind, err)
	}
	return nil
}
