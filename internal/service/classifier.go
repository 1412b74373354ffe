package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
	"github.com/bagdasarian/collabquest-assistant/internal/metrics"
)

var intentDescriptions = map[domain.Intent]string{
	domain.IntentCreateProject:   "the user wants to start a new project or team",
	domain.IntentDeleteProject:   "the user wants to delete one of their projects",
	domain.IntentCompleteProject: "the user wants to mark one of their projects as finished",
	domain.IntentRemoveMember:    "the user wants to remove someone from one of their projects",
	domain.IntentAssignTask:      "the user wants to assign a task to a project member",
	domain.IntentCodeRequest:     "the user asks for code, debugging help or a technical explanation",
	domain.IntentSearchRequest:   "the user looks for teammates or for a team to join",
	domain.IntentGeneralQuery:    "anything else: advice, hackathons, career, small talk",
}

// IntentClassifier относит вопрос к одной из категорий domain.Intent.
// Никогда не возвращает ошибку: при сбое модели выбирается GENERAL_QUERY.
type IntentClassifier struct {
	gateway llm.Gateway
	models  *llm.ModelTable
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewIntentClassifier(gateway llm.Gateway, models *llm.ModelTable, m *metrics.Metrics, logger *zap.Logger) *IntentClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentClassifier{gateway: gateway, models: models, metrics: m, logger: logger}
}

// Classify никогда не возвращает ошибку: при неудаче используется GENERAL_QUERY
func (c *IntentClassifier) Classify(ctx context.Context, question string) domain.Intent {
	intent, err := c.classify(ctx, question)
	if err != nil {
		c.logger.Warn("intent classification fell back", zap.Error(err))
		c.metrics.ObserveIntent(domain.IntentGeneralQuery.String(), true)
		return domain.IntentGeneralQuery
	}
	c.metrics.ObserveIntent(intent.String(), false)
	return intent
}

func (c *IntentClassifier) classify(ctx context.Context, question string) (domain.Intent, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: classifierPrompt()},
		{Role: llm.RoleUser, Content: question},
	}

	answer, err := c.gateway.Complete(ctx, c.models.For(llm.ModelClassifier), messages, llm.Temperature(0))
	if err != nil {
		return domain.IntentGeneralQuery, fmt.Errorf("%w: %w", domain.ErrClassificationFallback, err)
	}

	intent, ok := domain.ParseIntent(answer)
	if !ok {
		return domain.IntentGeneralQuery, fmt.Errorf("%w: answer %q is outside of the intent set", domain.ErrClassificationFallback, answer)
	}
	return intent, nil
}

func classifierPrompt() string {
	var b strings.Builder
	b.WriteString("You route messages of a hackathon team-building assistant.\n")
	b.WriteString("Classify the user's message into exactly one category:\n")
	for _, intent := range domain.AllIntents() {
		b.WriteString("- ")
		b.WriteString(intent.String())
		b.WriteString(": ")
		b.WriteString(intentDescriptions[intent])
		b.WriteString("\n")
	}
	b.WriteString("Answer with the category name only.")
	return b.String()
}
