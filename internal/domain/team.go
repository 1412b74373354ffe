package domain

import "time"

type TeamStatus string

const (
	TeamStatusPlanning  TeamStatus = "planning"
	TeamStatusActive    TeamStatus = "active"
	TeamStatusCompleted TeamStatus = "completed"
)

type VoteChoice string

const (
	VoteApprove VoteChoice = "approve"
	VoteReject  VoteChoice = "reject"
)

func (c VoteChoice) Valid() bool {
	return c == VoteApprove || c == VoteReject
}

// GovernanceAction - тип действия, требующего голосования
type GovernanceAction string

const (
	ActionDelete       GovernanceAction = "delete"
	ActionComplete     GovernanceAction = "complete"
	ActionRemoveMember GovernanceAction = "remove_member"
)

func (a GovernanceAction) Valid() bool {
	switch a {
	case ActionDelete, ActionComplete, ActionRemoveMember:
		return true
	}
	return false
}

type MemberRequestType string

const MemberRequestRemove MemberRequestType = "remove"

type Team struct {
	ID                  string
	Name                string
	Description         string
	Members             []string
	Status              TeamStatus
	IsLookingForMembers bool
	NeededSkills        []string
	DeletionRequest     *VoteRequest
	CompletionRequest   *VoteRequest
	MemberRequests      []MemberRequest
	Tasks               []Task
	Version             int
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

type VoteRequest struct {
	ID          string                `json:"id"`
	InitiatorID string                `json:"initiator_id"`
	IsActive    bool                  `json:"is_active"`
	Votes       map[string]VoteChoice `json:"votes"`
	CreatedAt   time.Time             `json:"created_at"`
}

type MemberRequest struct {
	VoteRequest
	Type         MemberRequestType `json:"type"`
	TargetUserID string            `json:"target_user_id"`
}

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AssigneeID  string    `json:"assignee_id"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeaderID возвращает members[0] или пустую строку для пустой команды
func (t *Team) LeaderID() string {
	if len(t.Members) == 0 {
		return ""
	}
	return t.Members[0]
}

func (t *Team) IsLeader(userID string) bool {
	return userID != "" && t.LeaderID() == userID
}

func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// RemoveMember удаляет участника, сохраняя порядок остальных
func (t *Team) RemoveMember(userID string) bool {
	for i, m := range t.Members {
		if m == userID {
			t.Members = append(t.Members[:i:i], t.Members[i+1:]...)
			return true
		}
	}
	return false
}

// ActiveMemberRequest ищет активный запрос на удаление участника
func (t *Team) ActiveMemberRequest(targetUserID string) *MemberRequest {
	for i := range t.MemberRequests {
		r := &t.MemberRequests[i]
		if r.IsActive && r.TargetUserID == targetUserID {
			return r
		}
	}
	return nil
}

// ActiveVoteCount считает все активные голосования команды
func (t *Team) ActiveVoteCount() int {
	count := 0
	if t.DeletionRequest != nil && t.DeletionRequest.IsActive {
		count++
	}
	if t.CompletionRequest != nil && t.CompletionRequest.IsActive {
		count++
	}
	for _, r := range t.MemberRequests {
		if r.IsActive {
			count++
		}
	}
	return count
}

// NewVoteRequest открывает голосование с одобрением инициатора
func NewVoteRequest(id, initiatorID string, now time.Time) *VoteRequest {
	return &VoteRequest{
		ID:          id,
		InitiatorID: initiatorID,
		IsActive:    true,
		Votes:       map[string]VoteChoice{initiatorID: VoteApprove},
		CreatedAt:   now,
	}
}

// Record записывает голос участника; повторный голос перезаписывает предыдущий.
// Возвращает false, если голос не изменился.
func (r *VoteRequest) Record(voterID string, choice VoteChoice) bool {
	if r.Votes == nil {
		r.Votes = make(map[string]VoteChoice)
	}
	if prev, ok := r.Votes[voterID]; ok && prev == choice {
		return false
	}
	r.Votes[voterID] = choice
	return true
}
