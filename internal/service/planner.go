package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

const plannerPrompt = `You are a hackathon project planner.
Turn the user's idea into a project plan for a 4 week hackathon.
The user's skills: %s.
Reply with JSON only:
{"name": string, "description": string, "needed_skills": [string], "roadmap": [{"week": integer, "goal": string}]}`

type projectPlan struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	NeededSkills []string `json:"needed_skills"`
	Roadmap      []struct {
		Week int    `json:"week"`
		Goal string `json:"goal"`
	} `json:"roadmap"`
}

// Planner создает новую команду по плану, предложенному моделью
type Planner struct {
	gateway  llm.Gateway
	models   *llm.ModelTable
	teamRepo repository.TeamRepository
	logger   *zap.Logger
}

func NewPlanner(gateway llm.Gateway, models *llm.ModelTable, teamRepo repository.TeamRepository, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{gateway: gateway, models: models, teamRepo: teamRepo, logger: logger}
}

func (p *Planner) Respond(ctx context.Context, state *domain.AgentState) (string, error) {
	skills := "not specified"
	if len(state.UserSkills) > 0 {
		skills = strings.Join(state.UserSkills, ", ")
	}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(plannerPrompt, skills)},
		{Role: llm.RoleUser, Content: state.Question},
	}

	answer, err := p.gateway.Complete(ctx, p.models.For(llm.ModelPlanner), messages, llm.Temperature(0.4))
	if err != nil {
		return "", err
	}

	var plan projectPlan
	if err := llm.DecodeJSON(answer, &plan); err != nil {
		return "", domain.NewExtractionError(err.Error())
	}
	plan.Name = strings.TrimSpace(plan.Name)
	if plan.Name == "" {
		return "", domain.NewExtractionError("project name is empty")
	}

	team := &domain.Team{
		Name:                plan.Name,
		Description:         strings.TrimSpace(plan.Description),
		Members:             []string{state.UserID},
		Status:              domain.TeamStatusPlanning,
		IsLookingForMembers: true,
		NeededSkills:        normalizeSkills(plan.NeededSkills),
	}
	if err := p.teamRepo.Create(ctx, team); err != nil {
		return "", fmt.Errorf("create team: %w", err)
	}

	p.logger.Info("project created", zap.String("team_id", team.ID), zap.String("user_id", state.UserID))

	var b strings.Builder
	fmt.Fprintf(&b, "I've created the project %q and made you its leader.\n", team.Name)
	if team.Description != "" {
		fmt.Fprintf(&b, "%s\n", team.Description)
	}
	if len(team.NeededSkills) > 0 {
		fmt.Fprintf(&b, "Looking for: %s\n", strings.Join(team.NeededSkills, ", "))
	}
	if len(plan.Roadmap) > 0 {
		b.WriteString("Roadmap:\n")
		for _, step := range plan.Roadmap {
			fmt.Fprintf(&b, "- Week %d: %s\n", step.Week, step.Goal)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
