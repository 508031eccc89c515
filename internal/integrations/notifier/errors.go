package notifier

import "errors"

var (
	// ErrEncodePayload возвращается, когда payload события не сериализуется в JSON
	ErrEncodePayload = errors.New("notifier: failed to encode payload")

	// ErrPublish возвращается, когда Redis не принял событие
	ErrPublish = errors.New("notifier: failed to publish event")
)
