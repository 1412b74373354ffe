package service

import (
	"context"
	"errors"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type userService struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	chatRepo         repository.ChatRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	chatRepo repository.ChatRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		chatRepo:         chatRepo,
	}
}

func (s *userService) GetNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	notifications, err := s.notificationRepo.ListByRecipient(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}

func (s *userService) GetChatHistory(ctx context.Context, userID string) ([]*domain.ChatMessage, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.ChatMessage{}
	}
	return messages, nil
}

func (s *userService) ensureUser(ctx context.Context, userID string) error {
	_, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFoundError("user with id " + userID)
		}
		return err
	}
	return nil
}
