package repository

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}
