package service

import (
	"context"
	"errors"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

type teamService struct {
	teamRepo repository.TeamRepository
}

// NewTeamService создает новый экземпляр TeamService
func NewTeamService(teamRepo repository.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

// GetTeam получает команду вместе с активными голосованиями
func (s *teamService) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError("team with id " + id)
		}
		return nil, err
	}
	return team, nil
}

// ListLedBy получает команды, в которых пользователь является лидером
func (s *teamService) ListLedBy(ctx context.Context, userID string) ([]*domain.Team, error) {
	teams, err := s.teamRepo.ListLedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []*domain.Team{}
	}
	return teams, nil
}
