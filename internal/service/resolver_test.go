package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

func TestMatchCandidate(t *testing.T) {
	candidates := []Candidate{
		{ID: "t1", Name: "Alpha"},
		{ID: "t2", Name: "Beta"},
		{ID: "t3", Name: "beta"},
	}

	tests := []struct {
		answer string
		want   string
		ok     bool
	}{
		{answer: "t1", want: "t1", ok: true},
		{answer: "`t2`", want: "t2", ok: true},
		{answer: "Alpha (t1)", want: "t1", ok: true},
		{answer: "alpha", want: "t1", ok: true},
		{answer: "Beta", ok: false},
		{answer: "NONE", ok: false},
		{answer: "none.", ok: false},
		{answer: "Gamma", ok: false},
		{answer: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := matchCandidate(tt.answer, candidates)
		assert.Equal(t, tt.ok, ok, "answer %q", tt.answer)
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
	}
}

func TestTargetResolver_ResolveTeam(t *testing.T) {
	models := llm.NewModelTable("m", nil)
	teams := []*domain.Team{{ID: "t1", Name: "Alpha"}, {ID: "t2", Name: "Beta"}}

	t.Run("модель выбирает кандидата", func(t *testing.T) {
		gateway := new(MockGateway)
		resolver := NewTargetResolver(gateway, models, zap.NewNop())

		gateway.On("Complete", mock.Anything, "m", mock.MatchedBy(func(msgs []llm.Message) bool {
			return len(msgs) == 2 && msgs[1].Content == "delete beta" &&
				containsAll(msgs[0].Content, "Alpha (t1)", "Beta (t2)")
		}), mock.Anything).Return("t2", nil).Once()

		team, err := resolver.ResolveTeam(context.Background(), "delete beta", teams)

		require.NoError(t, err)
		assert.Equal(t, "t2", team.ID)
	})

	t.Run("неизвестная цель дает NONE", func(t *testing.T) {
		gateway := new(MockGateway)
		resolver := NewTargetResolver(gateway, models, zap.NewNop())
		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("NONE", nil).Once()

		_, err := resolver.ResolveTeam(context.Background(), "delete Gamma", teams)

		assert.True(t, errors.Is(err, domain.ErrResolutionNotFound))
	})

	t.Run("ошибка шлюза дает NONE", func(t *testing.T) {
		gateway := new(MockGateway)
		resolver := NewTargetResolver(gateway, models, zap.NewNop())
		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", llm.NewFatalError(assert.AnError)).Once()

		_, err := resolver.ResolveTeam(context.Background(), "delete Alpha", teams)

		assert.True(t, errors.Is(err, domain.ErrResolutionNotFound))
	})

	t.Run("без кандидатов модель не вызывается", func(t *testing.T) {
		gateway := new(MockGateway)
		resolver := NewTargetResolver(gateway, models, zap.NewNop())

		_, err := resolver.ResolveTeam(context.Background(), "delete Alpha", nil)

		assert.True(t, errors.Is(err, domain.ErrResolutionNotFound))
		gateway.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTargetResolver_ResolveMember(t *testing.T) {
	models := llm.NewModelTable("m", nil)
	members := []*domain.User{{ID: "A", Username: "alice"}, {ID: "B", Username: "bob"}}

	t.Run("участник найден по имени", func(t *testing.T) {
		gateway := new(MockGateway)
		resolver := NewTargetResolver(gateway, models, zap.NewNop())
		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("Bob", nil).Once()

		user, err := resolver.ResolveMember(context.Background(), "remove bob from Alpha", "A", members)

		require.NoError(t, err)
		assert.Equal(t, "B", user.ID)
	})

	t.Run("указать на себя нельзя", func(t *testing.T) {
		gateway := new(MockGateway)
		resolver := NewTargetResolver(gateway, models, zap.NewNop())
		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("A", nil).Once()

		_, err := resolver.ResolveMember(context.Background(), "remove me from Alpha", "A", members)

		assert.True(t, errors.Is(err, domain.ErrSelfRemoval))
	})
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
