package postgres

import (
	"context"
	"database/sql"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type statsRepository struct {
	executor DBExecutor
}

func NewStatsRepository(db *sql.DB) *statsRepository {
	return &statsRepository{executor: db}
}

func (r *statsRepository) GetTeamStatusStats(ctx context.Context) ([]*domain.TeamStatusStat, error) {
	query := `
		SELECT status, COUNT(*) as count
		FROM teams
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*domain.TeamStatusStat
	for rows.Next() {
		stat := &domain.TeamStatusStat{}
		var status string
		if err := rows.Scan(&status, &stat.Count); err != nil {
			return nil, err
		}
		stat.Status = domain.TeamStatus(status)
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

func (r *statsRepository) GetGovernanceStats(ctx context.Context) (*domain.GovernanceStat, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE COALESCE((deletion_request->>'is_active')::boolean, FALSE)),
			COUNT(*) FILTER (WHERE COALESCE((completion_request->>'is_active')::boolean, FALSE)),
			COALESCE(SUM((
				SELECT COUNT(*) FROM jsonb_array_elements(member_requests) mr
				WHERE COALESCE((mr->>'is_active')::boolean, FALSE)
			)), 0)
		FROM teams
	`

	stat := &domain.GovernanceStat{}
	err := r.executor.QueryRowContext(ctx, query).Scan(
		&stat.ActiveDeletionVotes,
		&stat.ActiveCompletionVotes,
		&stat.ActiveRemovalVotes,
	)
	if err != nil {
		return nil, err
	}
	return stat, nil
}
