package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

// NoneToken - ответ модели, когда цель не найдена среди кандидатов
const NoneToken = "NONE"

type Candidate struct {
	ID   string
	Name string
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// TargetResolver выбирает из кандидатов проект или участника, о котором говорит пользователь
type TargetResolver struct {
	gateway llm.Gateway
	models  *llm.ModelTable
	logger  *zap.Logger
}

func NewTargetResolver(gateway llm.Gateway, models *llm.ModelTable, logger *zap.Logger) *TargetResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetResolver{gateway: gateway, models: models, logger: logger}
}

// Resolve возвращает ID выбранного кандидата или domain.ErrResolutionNotFound
func (r *TargetResolver) Resolve(ctx context.Context, text, kind string, candidates []Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", domain.ErrResolutionNotFound
	}

	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, "- "+c.String())
	}

	messages := []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: fmt.Sprintf(
				"Identify which %s the user's request refers to.\nCandidates:\n%s\n"+
					"Reply with the id in parentheses of exactly one candidate, or %s if none matches.",
				kind, strings.Join(lines, "\n"), NoneToken),
		},
		{Role: llm.RoleUser, Content: text},
	}

	answer, err := r.gateway.Complete(ctx, r.models.For(llm.ModelResolver), messages, llm.Temperature(0))
	if err != nil {
		r.logger.Warn("target resolution failed", zap.String("kind", kind), zap.Error(err))
		return "", domain.ErrResolutionNotFound
	}

	id, ok := matchCandidate(answer, candidates)
	if !ok {
		r.logger.Debug("target not resolved", zap.String("kind", kind), zap.String("answer", answer))
		return "", domain.ErrResolutionNotFound
	}
	return id, nil
}

// ResolveTeam выбирает команду среди тех, которыми руководит пользователь
func (r *TargetResolver) ResolveTeam(ctx context.Context, text string, teams []*domain.Team) (*domain.Team, error) {
	candidates := make([]Candidate, 0, len(teams))
	byID := make(map[string]*domain.Team, len(teams))
	for _, t := range teams {
		candidates = append(candidates, Candidate{ID: t.ID, Name: t.Name})
		byID[t.ID] = t
	}

	id, err := r.Resolve(ctx, text, "project", candidates)
	if err != nil {
		return nil, err
	}
	return byID[id], nil
}

// ResolveMember выбирает участника команды; указать на самого себя нельзя
func (r *TargetResolver) ResolveMember(ctx context.Context, text, requesterID string, members []*domain.User) (*domain.User, error) {
	candidates := make([]Candidate, 0, len(members))
	byID := make(map[string]*domain.User, len(members))
	for _, u := range members {
		candidates = append(candidates, Candidate{ID: u.ID, Name: u.DisplayName()})
		byID[u.ID] = u
	}

	id, err := r.Resolve(ctx, text, "team member", candidates)
	if err != nil {
		return nil, err
	}
	if id == requesterID {
		return nil, domain.ErrSelfRemoval
	}
	return byID[id], nil
}

// matchCandidate принимает ID кандидата, "name (id)" или имя без учета регистра.
// Неоднозначное имя не принимается.
func matchCandidate(answer string, candidates []Candidate) (string, bool) {
	s := strings.Trim(answer, "`'\"*.!;:, \t\r\n")
	if s == "" || strings.EqualFold(s, NoneToken) {
		return "", false
	}

	if open := strings.LastIndex(s, "("); open >= 0 && strings.HasSuffix(s, ")") {
		inner := strings.TrimSpace(s[open+1 : len(s)-1])
		for _, c := range candidates {
			if c.ID == inner {
				return c.ID, true
			}
		}
	}

	for _, c := range candidates {
		if c.ID == s {
			return c.ID, true
		}
	}

	found := ""
	for _, c := range candidates {
		if strings.EqualFold(c.Name, s) {
			if found != "" {
				return "", false
			}
			found = c.ID
		}
	}
	return found, found != ""
}
