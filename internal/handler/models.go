package handler

import "time"

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ChatRequest struct {
	Question string   `json:"question"`
	Skills   []string `json:"skills"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type ChatMessageResponse struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	UserID   string                `json:"user_id"`
	Messages []ChatMessageResponse `json:"messages"`
}

type VoteRequest struct {
	Action       string `json:"action"`
	Choice       string `json:"choice"`
	TargetUserID string `json:"target_user_id,omitempty"`
}

type VoteResponse struct {
	TeamID       string `json:"team_id"`
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	TargetUserID string `json:"target_user_id,omitempty"`
	Approvals    int    `json:"approvals"`
	Required     int    `json:"required"`
	// Followups - голосования, закрытые вслед за этим решением
	Followups []VoteResponse `json:"followups,omitempty"`
}

type VoteRequestResponse struct {
	ID           string            `json:"id"`
	InitiatorID  string            `json:"initiator_id"`
	TargetUserID string            `json:"target_user_id,omitempty"`
	IsActive     bool              `json:"is_active"`
	Votes        map[string]string `json:"votes"`
	CreatedAt    time.Time         `json:"created_at"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AssigneeID  string    `json:"assignee_id"`
	Deadline    time.Time `json:"deadline"`
}

type TeamResponse struct {
	TeamID              string                `json:"team_id"`
	Name                string                `json:"name"`
	Description         string                `json:"description"`
	LeaderID            string                `json:"leader_id"`
	Members             []string              `json:"members"`
	Status              string                `json:"status"`
	IsLookingForMembers bool                  `json:"is_looking_for_members"`
	NeededSkills        []string              `json:"needed_skills"`
	DeletionRequest     *VoteRequestResponse  `json:"deletion_request,omitempty"`
	CompletionRequest   *VoteRequestResponse  `json:"completion_request,omitempty"`
	MemberRequests      []VoteRequestResponse `json:"member_requests"`
	Tasks               []TaskResponse        `json:"tasks"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RelatedID string    `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationsResponse struct {
	UserID        string                 `json:"user_id"`
	Notifications []NotificationResponse `json:"notifications"`
}

type TeamStatusStatResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type GovernanceStatResponse struct {
	ActiveDeletionVotes   int `json:"active_deletion_votes"`
	ActiveCompletionVotes int `json:"active_completion_votes"`
	ActiveRemovalVotes    int `json:"active_removal_votes"`
}

type StatsResponse struct {
	TeamStats       []TeamStatusStatResponse `json:"team_stats"`
	GovernanceStats GovernanceStatResponse   `json:"governance_stats"`
}
