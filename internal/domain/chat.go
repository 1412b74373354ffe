package domain

import "time"

type ChatMessage struct {
	ID        int
	UserID    string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// AgentState живет в пределах одного запроса и не сохраняется
type AgentState struct {
	Question      string
	UserID        string
	UserSkills    []string
	Intent        Intent
	History       []*ChatMessage
	FinalResponse string
}
