package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

// searchRepository - простой поиск по пересечению навыков. Векторный поиск
// живет во внешнем сервисе; этот вариант используется, когда его нет.
type searchRepository struct {
	executor DBExecutor
}

func NewSearchRepository(db *sql.DB) *searchRepository {
	return &searchRepository{executor: db}
}

func (r *searchRepository) SearchUsers(ctx context.Context, terms []string, excludeUserID string, limit int) ([]*domain.User, error) {
	termsJSON, err := stringsArg(lowerAll(terms))
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, skills, is_looking_for_team
		FROM users
		WHERE is_looking_for_team = TRUE
			AND id <> $1
			AND EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(skills) s
				WHERE lower(s) IN (SELECT jsonb_array_elements_text($2::jsonb))
			)
		ORDER BY name
		LIMIT $3
	`

	rows, err := r.executor.QueryContext(ctx, query, excludeUserID, termsJSON, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *searchRepository) SearchTeams(ctx context.Context, terms []string, limit int) ([]*domain.Team, error) {
	termsJSON, err := stringsArg(lowerAll(terms))
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + teamColumns + `
		FROM teams
		WHERE is_looking_for_members = TRUE
			AND status <> 'completed'
			AND EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(needed_skills) s
				WHERE lower(s) IN (SELECT jsonb_array_elements_text($1::jsonb))
			)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.executor.QueryContext(ctx, query, termsJSON, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTeams(rows)
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
