package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

const teamColumns = `id, name, description, members, status, is_looking_for_members, needed_skills,
		deletion_request, completion_request, member_requests, tasks, version, created_at, updated_at`

type teamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *teamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.Status == "" {
		team.Status = domain.TeamStatusPlanning
	}

	args, err := teamArgs(team)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO teams (id, name, description, leader_id, members, status, is_looking_for_members,
			needed_skills, deletion_request, completion_request, member_requests, tasks, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, $13)
		RETURNING version, created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		team.ID,
		args.name,
		args.description,
		team.LeaderID(),
		args.members,
		string(team.Status),
		team.IsLookingForMembers,
		args.neededSkills,
		args.deletionRequest,
		args.completionRequest,
		args.memberRequests,
		args.tasks,
		time.Now(),
	).Scan(&team.Version, &team.CreatedAt)
	if err != nil {
		return err
	}

	team.UpdatedAt = nil
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("team with id " + id)
		}
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) ListLedBy(ctx context.Context, userID string) ([]*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE leader_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTeams(rows)
}

func (r *teamRepository) Save(ctx context.Context, team *domain.Team) error {
	version, updatedAt, err := updateTeam(ctx, r.db, team)
	if err != nil {
		return err
	}
	setSaved(team, version, updatedAt)
	return nil
}

// SaveWithPurge сохраняет команду и удаляет мэтчи исключенных участников
// в одной транзакции.
func (r *teamRepository) SaveWithPurge(ctx context.Context, team *domain.Team, purgeUserIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	version, updatedAt, err := updateTeam(ctx, tx, team)
	if err != nil {
		return err
	}

	matches := NewMatchRepository(tx)
	for _, userID := range purgeUserIDs {
		if _, err := matches.PurgeByTeamAndUser(ctx, team.ID, userID); err != nil {
			return fmt.Errorf("purge matches of %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	setSaved(team, version, updatedAt)
	return nil
}

func updateTeam(ctx context.Context, executor DBExecutor, team *domain.Team) (int, sql.NullTime, error) {
	var updatedAt sql.NullTime

	args, err := teamArgs(team)
	if err != nil {
		return 0, updatedAt, err
	}

	query := `
		UPDATE teams
		SET name = $3, description = $4, leader_id = $5, members = $6, status = $7,
			is_looking_for_members = $8, needed_skills = $9, deletion_request = $10,
			completion_request = $11, member_requests = $12, tasks = $13,
			version = version + 1, updated_at = $14
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	var version int
	err = executor.QueryRowContext(ctx, query,
		team.ID,
		team.Version,
		args.name,
		args.description,
		team.LeaderID(),
		args.members,
		string(team.Status),
		team.IsLookingForMembers,
		args.neededSkills,
		args.deletionRequest,
		args.completionRequest,
		args.memberRequests,
		args.tasks,
		time.Now(),
	).Scan(&version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, updatedAt, domain.ErrVersionConflict
		}
		return 0, updatedAt, err
	}
	return version, updatedAt, nil
}

func setSaved(team *domain.Team, version int, updatedAt sql.NullTime) {
	team.Version = version
	if updatedAt.Valid {
		team.UpdatedAt = &updatedAt.Time
	}
}

func (r *teamRepository) Delete(ctx context.Context, id string, version int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1 AND version = $2`, id, version)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE project_id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

type teamJSONArgs struct {
	name              string
	description       string
	members           string
	neededSkills      string
	deletionRequest   any
	completionRequest any
	memberRequests    string
	tasks             string
}

func teamArgs(team *domain.Team) (*teamJSONArgs, error) {
	members, err := stringsArg(team.Members)
	if err != nil {
		return nil, err
	}
	skills, err := stringsArg(team.NeededSkills)
	if err != nil {
		return nil, err
	}

	memberRequests := team.MemberRequests
	if memberRequests == nil {
		memberRequests = []domain.MemberRequest{}
	}
	requests, err := jsonArg(memberRequests)
	if err != nil {
		return nil, err
	}

	teamTasks := team.Tasks
	if teamTasks == nil {
		teamTasks = []domain.Task{}
	}
	tasks, err := jsonArg(teamTasks)
	if err != nil {
		return nil, err
	}

	deletion, err := nullableVoteRequest(team.DeletionRequest)
	if err != nil {
		return nil, err
	}
	completion, err := nullableVoteRequest(team.CompletionRequest)
	if err != nil {
		return nil, err
	}

	return &teamJSONArgs{
		name:              team.Name,
		description:       team.Description,
		members:           members,
		neededSkills:      skills,
		deletionRequest:   deletion,
		completionRequest: completion,
		memberRequests:    requests,
		tasks:             tasks,
	}, nil
}

func nullableVoteRequest(req *domain.VoteRequest) (any, error) {
	if req == nil {
		return nil, nil
	}
	return jsonArg(req)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	team := &domain.Team{}
	var (
		status                string
		members, skills       []byte
		deletion, completion  []byte
		memberRequests, tasks []byte
		updatedAt             sql.NullTime
	)

	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&members,
		&status,
		&team.IsLookingForMembers,
		&skills,
		&deletion,
		&completion,
		&memberRequests,
		&tasks,
		&team.Version,
		&team.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	team.Status = domain.TeamStatus(status)
	if updatedAt.Valid {
		team.UpdatedAt = &updatedAt.Time
	}

	if team.Members, err = decodeStrings(members); err != nil {
		return nil, err
	}
	if team.NeededSkills, err = decodeStrings(skills); err != nil {
		return nil, err
	}
	if team.DeletionRequest, err = decodeVoteRequest(deletion); err != nil {
		return nil, err
	}
	if team.CompletionRequest, err = decodeVoteRequest(completion); err != nil {
		return nil, err
	}
	if len(memberRequests) > 0 {
		if err := json.Unmarshal(memberRequests, &team.MemberRequests); err != nil {
			return nil, fmt.Errorf("decode member_requests: %w", err)
		}
	}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &team.Tasks); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
	}

	return team, nil
}

func scanTeams(rows *sql.Rows) ([]*domain.Team, error) {
	var teams []*domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func decodeVoteRequest(raw []byte) (*domain.VoteRequest, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	req := &domain.VoteRequest{}
	if err := json.Unmarshal(raw, req); err != nil {
		return nil, fmt.Errorf("decode vote request: %w", err)
	}
	return req, nil
}
