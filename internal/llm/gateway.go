// Package llm wraps the hosted text-generation capability behind a small
// Gateway interface. Implementations carry their own timeout and never retry:
// callers treat every error as a malformed answer and fall back.
package llm

import (
	"context"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Gateway completes a conversation with the given model.
// temperature is nil to use the model default.
type Gateway interface {
	Complete(ctx context.Context, model string, messages []Message, temperature *float32) (string, error)
}

// Temperature returns a pointer suitable for Gateway.Complete.
func Temperature(t float32) *float32 {
	return &t
}

// ModelRole names the component a model is used for.
type ModelRole string

const (
	ModelClassifier ModelRole = "classifier"
	ModelResolver   ModelRole = "resolver"
	ModelExtractor  ModelRole = "extractor"
	ModelPlanner    ModelRole = "planner"
	ModelCoder      ModelRole = "coder"
	ModelSearcher   ModelRole = "searcher"
	ModelChatter    ModelRole = "chatter"
)

// ModelTable maps component roles to model identifiers.
type ModelTable struct {
	defaultModel string
	models       map[ModelRole]string
}

func NewModelTable(defaultModel string, overrides map[string]string) *ModelTable {
	t := &ModelTable{
		defaultModel: defaultModel,
		models:       make(map[ModelRole]string, len(overrides)),
	}
	for role, model := range overrides {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		t.models[ModelRole(strings.ToLower(strings.TrimSpace(role)))] = model
	}
	return t
}

// For returns the model configured for role, or the default model.
func (t *ModelTable) For(role ModelRole) string {
	if t == nil {
		return ""
	}
	if m, ok := t.models[role]; ok {
		return m
	}
	return t.defaultModel
}
