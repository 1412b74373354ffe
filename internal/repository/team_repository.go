package repository

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	ListLedBy(ctx context.Context, userID string) ([]*domain.Team, error)
	// Save сохраняет команду, если ее версия совпадает с team.Version,
	// и увеличивает версию. Иначе возвращает domain.ErrVersionConflict.
	Save(ctx context.Context, team *domain.Team) error
	// SaveWithPurge - Save и удаление мэтчей перечисленных участников
	// этой команды в одной транзакции.
	SaveWithPurge(ctx context.Context, team *domain.Team, purgeUserIDs []string) error
	// Delete удаляет команду той же версии вместе со всеми ее мэтчами.
	Delete(ctx context.Context, id string, version int) error
}
