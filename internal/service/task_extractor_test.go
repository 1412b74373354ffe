package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
)

func TestTaskExtractor_Extract(t *testing.T) {
	roster := []*domain.User{{ID: "A", Username: "alice"}, {ID: "B", Username: "bob"}}

	tests := []struct {
		name    string
		answer  string
		err     error
		want    *ExtractedTask
		wantErr bool
	}{
		{
			name:   "все поля",
			answer: "```json\n{\"description\": \"build login page\", \"assignee\": \"B\", \"days\": 5}\n```",
			want:   &ExtractedTask{Description: "build login page", AssigneeID: "B", Days: 5},
		},
		{
			name:   "срок по умолчанию и имя вместо ID",
			answer: `{"description": "write docs", "assignee": "Alice", "days": null}`,
			want:   &ExtractedTask{Description: "write docs", AssigneeID: "A", Days: 3},
		},
		{name: "исполнитель не в команде", answer: `{"description": "x", "assignee": "Zed"}`, wantErr: true},
		{name: "пустое описание", answer: `{"description": " ", "assignee": "B"}`, wantErr: true},
		{name: "отрицательный срок", answer: `{"description": "x", "assignee": "B", "days": -1}`, wantErr: true},
		{name: "не JSON", answer: "sure, I'll do it", wantErr: true},
		{name: "ошибка шлюза", err: llm.NewTransientError(assert.AnError), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(MockGateway)
			extractor := NewTaskExtractor(gateway, llm.NewModelTable("m", nil), 3)
			gateway.On("Complete", mock.Anything, "m", mock.Anything, mock.Anything).Return(tt.answer, tt.err).Once()

			got, err := extractor.Extract(context.Background(), "assign something", roster)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrExtractionFailure))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
