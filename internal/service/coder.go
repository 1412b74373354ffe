package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

const coderPrompt = `You are a senior software engineer helping a hackathon participant.
Answer with working, idiomatic code and a short explanation.
Point out pitfalls and keep the answer focused on the question.`

type Coder struct {
	gateway llm.Gateway
	models  *llm.ModelTable
}

func NewCoder(gateway llm.Gateway, models *llm.ModelTable) *Coder {
	return &Coder{gateway: gateway, models: models}
}

func (c *Coder) Respond(ctx context.Context, state *domain.AgentState) (string, error) {
	return c.gateway.Complete(ctx, c.models.For(llm.ModelCoder), conversation(coderPrompt, state), llm.Temperature(0.2))
}
