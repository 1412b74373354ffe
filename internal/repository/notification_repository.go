package repository

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}
