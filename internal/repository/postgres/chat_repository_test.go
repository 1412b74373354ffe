package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

var chatColumns = []string{"id", "user_id", "question", "answer", "created_at"}

func TestChatRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChatRepository(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO chat_messages").
		WithArgs("u1", "hi", "hello", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	msg := &domain.ChatMessage{UserID: "u1", Question: "hi", Answer: "hello"}
	require.NoError(t, repo.Create(context.Background(), msg))
	assert.Equal(t, 7, msg.ID)
	assert.Equal(t, now, msg.CreatedAt)
}

func TestChatRepository_ListRecent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChatRepository(db)
	now := time.Now()

	// БД возвращает новые сообщения первыми
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs("u1", 10).
		WillReturnRows(sqlmock.NewRows(chatColumns).
			AddRow(3, "u1", "q3", "a3", now).
			AddRow(2, "u1", "q2", "a2", now.Add(-time.Minute)).
			AddRow(1, "u1", "q1", "a1", now.Add(-2*time.Minute)))

	messages, err := repo.ListRecent(context.Background(), "u1", 10)

	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "q1", messages[0].Question, "история должна идти в хронологическом порядке")
	assert.Equal(t, "q3", messages[2].Question)
}

func TestChatRepository_ListAll(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChatRepository(db)

	mock.ExpectQuery("FROM chat_messages").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(chatColumns).AddRow(1, "u1", "q1", "a1", time.Now()))

	messages, err := repo.ListAll(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
