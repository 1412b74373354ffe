package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type StatsService interface {
	GetTeamStatusStats(ctx context.Context) ([]*domain.TeamStatusStat, error)
	GetGovernanceStats(ctx context.Context) (*domain.GovernanceStat, error)
}
