package postgres

import "context"

type matchRepository struct {
	executor DBExecutor
}

// NewMatchRepository принимает *sql.DB или *sql.Tx
func NewMatchRepository(executor DBExecutor) *matchRepository {
	return &matchRepository{executor: executor}
}

func (r *matchRepository) PurgeByTeamAndUser(ctx context.Context, teamID, userID string) (int64, error) {
	result, err := r.executor.ExecContext(ctx,
		`DELETE FROM matches WHERE project_id = $1 AND user_id = $2`,
		teamID,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
