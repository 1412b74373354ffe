package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type UserService interface {
	// GetNotifications получает последние уведомления пользователя
	GetNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// GetChatHistory получает всю переписку пользователя с ассистентом
	GetChatHistory(ctx context.Context, userID string) ([]*domain.ChatMessage, error)
}
