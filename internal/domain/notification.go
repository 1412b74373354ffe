package domain

import "time"

type NotificationType string

const (
	NotificationVoteRequest      NotificationType = "vote_request"
	NotificationVoteRejected     NotificationType = "vote_rejected"
	NotificationProjectDeleted   NotificationType = "project_deleted"
	NotificationProjectCompleted NotificationType = "project_completed"
	NotificationMemberRemoved    NotificationType = "member_removed"
	NotificationTaskAssigned     NotificationType = "task_assigned"
)

type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	SenderID    string           `json:"sender_id"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	RelatedID   string           `json:"related_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
