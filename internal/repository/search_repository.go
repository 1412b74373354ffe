package repository

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

// SearchRepository - граница с внешним поиском профилей и проектов
type SearchRepository interface {
	SearchUsers(ctx context.Context, terms []string, excludeUserID string, limit int) ([]*domain.User, error)
	SearchTeams(ctx context.Context, terms []string, limit int) ([]*domain.Team, error)
}
