package repository

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	// ListRecent возвращает последние limit сообщений в хронологическом порядке
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.ChatMessage, error)
	ListAll(ctx context.Context, userID string) ([]*domain.ChatMessage, error)
}
