package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetTeamStatusStats(ctx context.Context) ([]*domain.TeamStatusStat, error) {
	return s.statsRepo.GetTeamStatusStats(ctx)
}

func (s *statsService) GetGovernanceStats(ctx context.Context) (*domain.GovernanceStat, error) {
	return s.statsRepo.GetGovernanceStats(ctx)
}
