package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

var teamRowColumns = []string{
	"id", "name", "description", "members", "status", "is_looking_for_members", "needed_skills",
	"deletion_request", "completion_request", "member_requests", "tasks", "version", "created_at", "updated_at",
}

// setupTeamRepo создает мок БД и репозиторий для Team
func setupTeamRepo(t *testing.T) (*teamRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewTeamRepository(db), mock
}

func TestTeamRepository_Create(t *testing.T) {
	t.Run("успешное создание команды", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)
		now := time.Now()

		team := &domain.Team{
			ID:                  "t1",
			Name:                "Alpha",
			Members:             []string{"a"},
			IsLookingForMembers: true,
			NeededSkills:        []string{"go"},
		}

		mock.ExpectQuery("INSERT INTO teams").
			WithArgs("t1", "Alpha", "", "a", `["a"]`, "planning", true, `["go"]`, nil, nil, "[]", "[]", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"version", "created_at"}).AddRow(1, now))

		err := repo.Create(context.Background(), team)

		require.NoError(t, err)
		assert.Equal(t, 1, team.Version)
		assert.Equal(t, domain.TeamStatusPlanning, team.Status, "статус по умолчанию - planning")
		assert.Equal(t, now, team.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("генерирует ID, если он пустой", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)

		mock.ExpectQuery("INSERT INTO teams").
			WillReturnRows(sqlmock.NewRows([]string{"version", "created_at"}).AddRow(1, time.Now()))

		team := &domain.Team{Name: "Beta", Members: []string{"a"}}
		require.NoError(t, repo.Create(context.Background(), team))
		assert.NotEmpty(t, team.ID)
	})
}

func TestTeamRepository_GetByID(t *testing.T) {
	t.Run("успешное получение с голосованием", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

		rows := sqlmock.NewRows(teamRowColumns).AddRow(
			"t1", "Alpha", "desc", []byte(`["a","b"]`), "active", false, []byte(`["go"]`),
			[]byte(`{"id":"r1","initiator_id":"a","is_active":true,"votes":{"a":"approve"},"created_at":"2025-01-02T03:04:05Z"}`),
			nil,
			[]byte(`[{"id":"r2","initiator_id":"a","is_active":true,"votes":{"a":"approve"},"created_at":"2025-01-02T03:04:05Z","type":"remove","target_user_id":"b"}]`),
			[]byte(`[]`),
			4, created, nil,
		)
		mock.ExpectQuery("SELECT (.+) FROM teams WHERE id = \\$1").WithArgs("t1").WillReturnRows(rows)

		team, err := repo.GetByID(context.Background(), "t1")

		require.NoError(t, err)
		assert.Equal(t, domain.TeamStatusActive, team.Status)
		assert.Equal(t, 4, team.Version)
		assert.Nil(t, team.CompletionRequest)
		assert.Nil(t, team.UpdatedAt)

		wantDeletion := &domain.VoteRequest{
			ID:          "r1",
			InitiatorID: "a",
			IsActive:    true,
			Votes:       map[string]domain.VoteChoice{"a": domain.VoteApprove},
			CreatedAt:   created,
		}
		if diff := cmp.Diff(wantDeletion, team.DeletionRequest); diff != "" {
			t.Errorf("deletion request mismatch (-want +got):\n%s", diff)
		}

		require.Len(t, team.MemberRequests, 1)
		assert.Equal(t, "b", team.MemberRequests[0].TargetUserID)
		assert.Equal(t, domain.MemberRequestRemove, team.MemberRequests[0].Type)
		assert.True(t, team.MemberRequests[0].IsActive)
		assert.Equal(t, []string{"a", "b"}, team.Members)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("команда не найдена", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM teams").WithArgs("missing").WillReturnError(sql.ErrNoRows)

		team, err := repo.GetByID(context.Background(), "missing")

		assert.Nil(t, team)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestTeamRepository_ListLedBy(t *testing.T) {
	repo, mock := setupTeamRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows(teamRowColumns).
		AddRow("t1", "Alpha", "", []byte(`["a"]`), "planning", true, []byte(`[]`), nil, nil, []byte(`[]`), []byte(`[]`), 1, now, nil).
		AddRow("t2", "Beta", "", []byte(`["a","c"]`), "active", true, []byte(`[]`), nil, nil, []byte(`[]`), []byte(`[]`), 2, now, now)
	mock.ExpectQuery("WHERE leader_id = \\$1").WithArgs("a").WillReturnRows(rows)

	teams, err := repo.ListLedBy(context.Background(), "a")

	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Beta", teams[1].Name)
	assert.NotNil(t, teams[1].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_Save(t *testing.T) {
	t.Run("успешное сохранение увеличивает версию", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)
		now := time.Now()

		team := &domain.Team{ID: "t1", Name: "Alpha", Members: []string{"a", "b"}, Status: domain.TeamStatusActive, Version: 3}

		mock.ExpectQuery("UPDATE teams").
			WithArgs("t1", 3, "Alpha", "", "a", `["a","b"]`, "active", false, "[]", nil, nil, "[]", "[]", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(4, now))

		require.NoError(t, repo.Save(context.Background(), team))
		assert.Equal(t, 4, team.Version)
		require.NotNil(t, team.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("конфликт версий", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)

		team := &domain.Team{ID: "t1", Members: []string{"a"}, Status: domain.TeamStatusActive, Version: 3}
		mock.ExpectQuery("UPDATE teams").WillReturnError(sql.ErrNoRows)

		err := repo.Save(context.Background(), team)

		assert.True(t, errors.Is(err, domain.ErrVersionConflict))
		assert.Equal(t, 3, team.Version)
	})
}

func TestTeamRepository_SaveWithPurge(t *testing.T) {
	t.Run("сохраняет команду и чистит мэтчи в одной транзакции", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)
		now := time.Now()

		team := &domain.Team{ID: "t1", Name: "Alpha", Members: []string{"a", "c"}, Status: domain.TeamStatusActive, Version: 3}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE teams").
			WithArgs("t1", 3, "Alpha", "", "a", `["a","c"]`, "active", false, "[]", nil, nil, "[]", "[]", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(4, now))
		mock.ExpectExec("DELETE FROM matches WHERE project_id").WithArgs("t1", "b").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		require.NoError(t, repo.SaveWithPurge(context.Background(), team, []string{"b"}))
		assert.Equal(t, 4, team.Version)
		require.NotNil(t, team.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка очистки откатывает сохранение", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)
		now := time.Now()

		team := &domain.Team{ID: "t1", Members: []string{"a"}, Status: domain.TeamStatusActive, Version: 3}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE teams").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(4, now))
		mock.ExpectExec("DELETE FROM matches WHERE project_id").WithArgs("t1", "b").WillReturnError(errors.New("db down"))
		mock.ExpectRollback()

		err := repo.SaveWithPurge(context.Background(), team, []string{"b"})

		require.Error(t, err)
		assert.Equal(t, 3, team.Version)
		assert.Nil(t, team.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("конфликт версий откатывает транзакцию", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)

		team := &domain.Team{ID: "t1", Members: []string{"a"}, Status: domain.TeamStatusActive, Version: 3}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE teams").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.SaveWithPurge(context.Background(), team, []string{"b"})

		assert.True(t, errors.Is(err, domain.ErrVersionConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTeamRepository_Delete(t *testing.T) {
	t.Run("удаляет команду и мэтчи в одной транзакции", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM teams").WithArgs("t1", 2).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM matches WHERE project_id").WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 5))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), "t1", 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("конфликт версий откатывает транзакцию", func(t *testing.T) {
		repo, mock := setupTeamRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM teams").WithArgs("t1", 2).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "t1", 2)

		assert.True(t, errors.Is(err, domain.ErrVersionConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
