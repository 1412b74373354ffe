package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type chatRepository struct {
	executor DBExecutor
}

func NewChatRepository(db *sql.DB) *chatRepository {
	return &chatRepository{executor: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.executor.QueryRowContext(ctx, query,
		msg.UserID,
		msg.Question,
		msg.Answer,
		time.Now(),
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *chatRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, user_id, question, answer, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.executor.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages, err := scanChatMessages(rows)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *chatRepository) ListAll(ctx context.Context, userID string) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, user_id, question, answer, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChatMessages(rows)
}

func scanChatMessages(rows *sql.Rows) ([]*domain.ChatMessage, error) {
	var messages []*domain.ChatMessage
	for rows.Next() {
		msg := &domain.ChatMessage{}
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Question, &msg.Answer, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
