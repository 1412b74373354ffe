package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultTimeout = 30 * time.Second

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GeminiGateway implements Gateway on top of the Gemini API.
type GeminiGateway struct {
	client  *genai.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewGeminiGateway(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &GeminiGateway{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (g *GeminiGateway) Complete(ctx context.Context, model string, messages []Message, temperature *float32) (string, error) {
	if model == "" {
		return "", NewFatalError(errors.New("model is required"))
	}

	system, contents := toContents(messages)
	if len(contents) == 0 {
		return "", NewFatalError(errors.New("at least one non-system message is required"))
	}

	config := &genai.GenerateContentConfig{Temperature: temperature}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		g.logger.Warn("gemini request failed",
			zap.String("model", model),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return "", classifyError(ctx, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", NewTransientError(errors.New("empty completion"))
	}

	g.logger.Debug("gemini request completed",
		zap.String("model", model),
		zap.Int("messages", len(messages)),
		zap.Duration("elapsed", time.Since(started)))

	return text, nil
}

// toContents splits system prompts from the conversation turns.
func toContents(messages []Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return NewTransientError(fmt.Errorf("gemini request: %w", err))
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return NewTransientError(err)
		}
		return NewFatalError(err)
	}
	return NewTransientError(err)
}
