package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "голый объект",
			content: `{"a": 1}`,
			want:    `{"a": 1}`,
		},
		{
			name:    "markdown блок",
			content: "Here you go:\n```json\n{\"a\": 1}\n```\nThanks",
			want:    `{"a": 1}`,
		},
		{
			name:    "висячая запятая",
			content: `{"a": 1, "b": [1, 2,],}`,
			want:    `{"a": 1, "b": [1, 2]}`,
		},
		{
			name:    "комментарий вне строки",
			content: "{\n\"url\": \"http://x.io\", // link\n\"n\": 2\n}",
			want:    "{\n\"url\": \"http://x.io\",\n\"n\": 2\n}",
		},
		{
			name:    "нет JSON",
			content: "NONE",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.content))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("успешный разбор", func(t *testing.T) {
		var out struct {
			Description string `json:"description"`
			Days        int    `json:"days"`
		}
		err := DecodeJSON("```json\n{\"description\": \"write docs\", \"days\": 5}\n```", &out)
		require.NoError(t, err)
		assert.Equal(t, "write docs", out.Description)
		assert.Equal(t, 5, out.Days)
	})

	t.Run("нет объекта", func(t *testing.T) {
		var out map[string]any
		assert.ErrorIs(t, DecodeJSON("sorry, I can't", &out), ErrNoJSON)
	})

	t.Run("несовпадение типов", func(t *testing.T) {
		var out struct {
			Days int `json:"days"`
		}
		err := DecodeJSON(`{"days": "soon"}`, &out)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoJSON)
	})
}
