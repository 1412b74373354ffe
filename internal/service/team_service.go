package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type TeamService interface {
	GetTeam(ctx context.Context, id string) (*domain.Team, error)
	ListLedBy(ctx context.Context, userID string) ([]*domain.Team, error)
}
