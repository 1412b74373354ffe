package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

// GovernanceService управляет голосованиями за удаление, завершение
// проекта и исключение участника, а также назначением задач.
type GovernanceService interface {
	InitiateDeletion(ctx context.Context, teamID, initiatorID string) (*GovernanceResult, error)
	InitiateCompletion(ctx context.Context, teamID, initiatorID string) (*GovernanceResult, error)
	InitiateRemoval(ctx context.Context, teamID, initiatorID, targetUserID string) (*GovernanceResult, error)
	CastVote(ctx context.Context, cmd VoteCommand) (*GovernanceResult, error)
	AssignTask(ctx context.Context, teamID, requesterID string, task *ExtractedTask) (*domain.Task, error)
}

type VoteCommand struct {
	TeamID       string
	Action       domain.GovernanceAction
	TargetUserID string
	VoterID      string
	Choice       domain.VoteChoice
}

// GovernanceResult описывает состояние голосования после операции
type GovernanceResult struct {
	Action       domain.GovernanceAction
	Outcome      domain.Outcome
	TeamID       string
	TeamName     string
	TargetUserID string
	// Immediate - действие применено без голосования
	Immediate bool
	Approvals int
	Required  int
	// Followups - другие голосования, закрытые после исключения участника
	Followups []*GovernanceResult
}

type GovernanceConfig struct {
	Quorums    map[domain.GovernanceAction]domain.QuorumRule
	MaxRetries int
}

// DefaultQuorums - пороги по умолчанию для каждого действия
func DefaultQuorums() map[domain.GovernanceAction]domain.QuorumRule {
	return map[domain.GovernanceAction]domain.QuorumRule{
		domain.ActionDelete:       domain.QuorumUnanimous,
		domain.ActionComplete:     domain.QuorumMajority,
		domain.ActionRemoveMember: domain.QuorumMajority,
	}
}
