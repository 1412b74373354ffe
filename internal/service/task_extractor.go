package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

const maxTaskDays = 365

// ExtractedTask - задача, разобранная из свободного текста и сверенная с составом команды
type ExtractedTask struct {
	Description string
	AssigneeID  string
	Days        int
}

type TaskExtractor struct {
	gateway     llm.Gateway
	models      *llm.ModelTable
	defaultDays int
}

func NewTaskExtractor(gateway llm.Gateway, models *llm.ModelTable, defaultDays int) *TaskExtractor {
	if defaultDays <= 0 {
		defaultDays = 3
	}
	return &TaskExtractor{gateway: gateway, models: models, defaultDays: defaultDays}
}

type taskPayload struct {
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Days        *int   `json:"days"`
}

// Extract возвращает задачу или ошибку EXTRACTION_FAILURE; частичных результатов нет
func (e *TaskExtractor) Extract(ctx context.Context, text string, roster []*domain.User) (*ExtractedTask, error) {
	names := make([]string, 0, len(roster))
	for _, u := range roster {
		names = append(names, "- "+Candidate{ID: u.ID, Name: u.DisplayName()}.String())
	}

	messages := []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: "Extract a task assignment from the user's message.\nTeam members:\n" +
				strings.Join(names, "\n") +
				"\nReply with JSON only: {\"description\": string, \"assignee\": member id, \"days\": integer or null}. " +
				"Use null for days when the message gives no deadline.",
		},
		{Role: llm.RoleUser, Content: text},
	}

	answer, err := e.gateway.Complete(ctx, e.models.For(llm.ModelExtractor), messages, llm.Temperature(0))
	if err != nil {
		return nil, domain.NewExtractionError(err.Error())
	}

	var payload taskPayload
	if err := llm.DecodeJSON(answer, &payload); err != nil {
		return nil, domain.NewExtractionError(err.Error())
	}

	description := strings.TrimSpace(payload.Description)
	if description == "" {
		return nil, domain.NewExtractionError("task description is empty")
	}

	candidates := make([]Candidate, 0, len(roster))
	for _, u := range roster {
		candidates = append(candidates, Candidate{ID: u.ID, Name: u.DisplayName()})
	}
	assigneeID, ok := matchCandidate(payload.Assignee, candidates)
	if !ok {
		return nil, domain.NewExtractionError(fmt.Sprintf("assignee %q is not a team member", payload.Assignee))
	}

	days := e.defaultDays
	if payload.Days != nil {
		days = *payload.Days
	}
	if days <= 0 || days > maxTaskDays {
		return nil, domain.NewExtractionError(fmt.Sprintf("invalid deadline of %d days", days))
	}

	return &ExtractedTask{Description: description, AssigneeID: assigneeID, Days: days}, nil
}
