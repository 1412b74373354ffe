package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

type notificationRepository struct {
	executor DBExecutor
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{executor: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	var relatedID sql.NullString
	if n.RelatedID != "" {
		relatedID = sql.NullString{String: n.RelatedID, Valid: true}
	}

	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, message, type, related_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.executor.ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		n.SenderID,
		n.Message,
		string(n.Type),
		relatedID,
		n.IsRead,
		n.CreatedAt,
	)
	return err
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, message, type, related_id, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.executor.QueryContext(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		var kind string
		var relatedID sql.NullString
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&n.Message,
			&kind,
			&relatedID,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(kind)
		n.RelatedID = relatedID.String
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
