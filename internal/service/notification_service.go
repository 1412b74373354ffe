package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

// Notifier рассылает уведомления. Ошибки доставки только логируются
// и никогда не прерывают операцию, которая их вызвала.
type Notifier interface {
	Notify(ctx context.Context, notifications []*domain.Notification)
}

// Publisher - транспорт для push-доставки уведомлений; *nats.Conn подходит напрямую
type Publisher interface {
	Publish(subject string, data []byte) error
}
