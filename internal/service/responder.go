package service

import (
	"context"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

// Responder - обработчик разговорного интента, формирующий итоговый ответ
type Responder interface {
	Respond(ctx context.Context, state *domain.AgentState) (string, error)
}

// conversation собирает system prompt, историю и текущий вопрос
func conversation(system string, state *domain.AgentState) []llm.Message {
	messages := make([]llm.Message, 0, 2*len(state.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, h := range state.History {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: h.Question},
			llm.Message{Role: llm.RoleAssistant, Content: h.Answer},
		)
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: state.Question})
}
