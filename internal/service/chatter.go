package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

const mentorPrompt = `You are CollabQuest Mentor Bot.

The user's current skill set: %s.

Your role:
- Help with hackathons, team formation, software development, and project planning.
- Suggest realistic next steps based on the user's skill level.
- Prefer actionable advice over theory.
- Keep responses concise, practical, and encouraging.`

type Chatter struct {
	gateway llm.Gateway
	models  *llm.ModelTable
}

func NewChatter(gateway llm.Gateway, models *llm.ModelTable) *Chatter {
	return &Chatter{gateway: gateway, models: models}
}

func (c *Chatter) Respond(ctx context.Context, state *domain.AgentState) (string, error) {
	return c.gateway.Complete(ctx, c.models.For(llm.ModelChatter), conversation(mentorSystemPrompt(state.UserSkills), state), nil)
}

func mentorSystemPrompt(skills []string) string {
	level := "Beginner"
	if len(skills) > 0 {
		level = strings.Join(skills, ", ")
	}
	return fmt.Sprintf(mentorPrompt, level)
}
