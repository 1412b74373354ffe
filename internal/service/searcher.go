package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

const (
	searchLimit       = 5
	noSearchResults   = "I couldn't find any matching teammates or projects right now. Try adding more skills to your profile or describing what you're looking for."
	searcherPrompt    = "You help hackathon participants find teammates and teams. Present the search results below to the user as a short recommendation list, explaining briefly why each one fits. Do not invent results."
	minSearchTermSize = 2
)

var searchStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "any": {}, "find": {}, "for": {}, "looking": {}, "me": {},
	"need": {}, "of": {}, "or": {}, "search": {}, "some": {}, "team": {}, "teammate": {},
	"teammates": {}, "teams": {}, "the": {}, "to": {}, "who": {}, "with": {}, "knows": {},
	"i": {}, "im": {}, "project": {}, "projects": {}, "people": {}, "someone": {}, "in": {},
}

type Searcher struct {
	gateway llm.Gateway
	models  *llm.ModelTable
	search  repository.SearchRepository
}

func NewSearcher(gateway llm.Gateway, models *llm.ModelTable, search repository.SearchRepository) *Searcher {
	return &Searcher{gateway: gateway, models: models, search: search}
}

func (s *Searcher) Respond(ctx context.Context, state *domain.AgentState) (string, error) {
	terms := searchTerms(state.Question, state.UserSkills)

	users, err := s.search.SearchUsers(ctx, terms, state.UserID, searchLimit)
	if err != nil {
		return "", fmt.Errorf("search users: %w", err)
	}
	teams, err := s.search.SearchTeams(ctx, terms, searchLimit)
	if err != nil {
		return "", fmt.Errorf("search teams: %w", err)
	}

	if len(users) == 0 && len(teams) == 0 {
		return noSearchResults, nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: searcherPrompt + "\n\n" + renderSearchResults(users, teams)},
		{Role: llm.RoleUser, Content: state.Question},
	}
	return s.gateway.Complete(ctx, s.models.For(llm.ModelSearcher), messages, nil)
}

// searchTerms объединяет навыки пользователя и значимые слова запроса
func searchTerms(question string, skills []string) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0, len(skills))
	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if len(term) < minSearchTermSize {
			return
		}
		if _, stop := searchStopWords[term]; stop {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, skill := range skills {
		add(skill)
	}
	words := strings.FieldsFunc(question, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	for _, w := range words {
		add(strings.Trim(w, "."))
	}
	return terms
}

func renderSearchResults(users []*domain.User, teams []*domain.Team) string {
	var b strings.Builder
	if len(users) > 0 {
		b.WriteString("People looking for a team:\n")
		for _, u := range users {
			fmt.Fprintf(&b, "- %s: %s\n", u.DisplayName(), strings.Join(u.Skills, ", "))
		}
	}
	if len(teams) > 0 {
		b.WriteString("Projects looking for members:\n")
		for _, t := range teams {
			fmt.Fprintf(&b, "- %s: %s (needs %s)\n", t.Name, t.Description, strings.Join(t.NeededSkills, ", "))
		}
	}
	return b.String()
}
