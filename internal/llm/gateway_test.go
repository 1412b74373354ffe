package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/metrics"
)

func TestModelTable_For(t *testing.T) {
	table := NewModelTable("gemini-2.5-flash", map[string]string{
		"Coder":   "gemini-2.5-pro",
		"planner": " ",
	})

	assert.Equal(t, "gemini-2.5-pro", table.For(ModelCoder))
	assert.Equal(t, "gemini-2.5-flash", table.For(ModelPlanner))
	assert.Equal(t, "gemini-2.5-flash", table.For(ModelClassifier))

	var nilTable *ModelTable
	assert.Equal(t, "", nilTable.For(ModelChatter))
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")

	transient := fmt.Errorf("wrapped: %w", NewTransientError(base))
	assert.True(t, IsTransient(transient))
	assert.False(t, IsFatal(transient))
	assert.ErrorIs(t, transient, base)

	fatal := NewFatalError(base)
	assert.True(t, IsFatal(fatal))
	assert.False(t, IsTransient(fatal))
}

func newTestGemini(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GeminiGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := NewGeminiGateway(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		Timeout:    timeout,
		HTTPClient: srv.Client(),
	}, zap.NewNop())
	require.NoError(t, err)
	return gw
}

func TestGeminiGateway_Complete(t *testing.T) {
	t.Run("успешный ответ", func(t *testing.T) {
		var body string
		gw := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			body = string(b)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  DELETE_PROJECT \n"}]},"finishReason":"STOP"}]}`)
		}, time.Second)

		text, err := gw.Complete(context.Background(), "gemini-test", []Message{
			{Role: RoleSystem, Content: "classify"},
			{Role: RoleUser, Content: "delete Alpha"},
		}, Temperature(0))

		require.NoError(t, err)
		assert.Equal(t, "DELETE_PROJECT", text)
		assert.True(t, strings.Contains(body, "delete Alpha"))
		assert.True(t, strings.Contains(body, "classify"))
	})

	t.Run("ошибка сервера - transient", func(t *testing.T) {
		gw := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
		}, time.Second)

		_, err := gw.Complete(context.Background(), "gemini-test", []Message{{Role: RoleUser, Content: "hi"}}, nil)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("таймаут", func(t *testing.T) {
		gw := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}, 50*time.Millisecond)

		_, err := gw.Complete(context.Background(), "gemini-test", []Message{{Role: RoleUser, Content: "hi"}}, nil)
		require.Error(t, err)
		assert.True(t, IsTransient(err))
	})

	t.Run("без модели - fatal", func(t *testing.T) {
		gw := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)
		_, err := gw.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}, nil)
		assert.True(t, IsFatal(err))
	})

	t.Run("только системные сообщения - fatal", func(t *testing.T) {
		gw := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)
		_, err := gw.Complete(context.Background(), "m", []Message{{Role: RoleSystem, Content: "x"}}, nil)
		assert.True(t, IsFatal(err))
	})
}

type stubGateway struct {
	text string
	err  error
}

func (s stubGateway) Complete(context.Context, string, []Message, *float32) (string, error) {
	return s.text, s.err
}

func TestInstrumentedGateway(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	gw := NewInstrumentedGateway(stubGateway{text: "ok"}, m)

	text, err := gw.Complete(context.Background(), "m", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	failing := NewInstrumentedGateway(stubGateway{err: errors.New("down")}, m)
	_, err = failing.Complete(context.Background(), "m", nil, nil)
	assert.EqualError(t, err, "down")
}
