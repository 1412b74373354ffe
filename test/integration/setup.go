//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bagdasarian/collabquest-assistant/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	// Создаём контейнер Postgres через testcontainers
	postgresContainer, err := postgres.Run(ctx,
		"postgres:17.7",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, database.Ping())

	// Накатываем встроенные миграции
	require.NoError(t, db.Migrate(ctx, database), "не удалось применить миграции")

	t.Cleanup(func() {
		database.Close()
		require.NoError(t, postgresContainer.Terminate(ctx))
	})

	return database
}

func seedUsers(t *testing.T, database *sql.DB, names map[string]string) {
	for id, name := range names {
		_, err := database.Exec(`INSERT INTO users (id, name) VALUES ($1, $2)`, id, name)
		require.NoError(t, err)
	}
}

func seedMatch(t *testing.T, database *sql.DB, teamID, userID string) {
	_, err := database.Exec(`INSERT INTO matches (user_id, project_id) VALUES ($1, $2)`, userID, teamID)
	require.NoError(t, err)
}

func countRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	var n int
	assert.NoError(t, database.QueryRow(query, args...).Scan(&n))
	return n
}
