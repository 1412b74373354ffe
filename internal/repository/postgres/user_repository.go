package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type userRepository struct {
	executor DBExecutor
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{executor: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, skills, is_looking_for_team
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("user with id " + id)
		}
		return nil, err
	}
	return user, nil
}

// GetByIDs возвращает найденных пользователей в порядке ids; отсутствующие пропускаются
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	idsJSON, err := stringsArg(ids)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, skills, is_looking_for_team
		FROM users
		WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))
	`

	rows, err := r.executor.QueryContext(ctx, query, idsJSON)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.User, len(ids))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(byID))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var skills []byte
	if err := row.Scan(&user.ID, &user.Username, &skills, &user.IsLookingForTeam); err != nil {
		return nil, err
	}

	var err error
	if user.Skills, err = decodeStrings(skills); err != nil {
		return nil, err
	}
	return user, nil
}
