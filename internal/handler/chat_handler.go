package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

const maxQuestionLength = 4000

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, badRequest("invalid request body"))
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		h.handleError(w, badRequest("question is required"))
		return
	}
	if len(question) > maxQuestionLength {
		h.handleError(w, badRequest("question is too long"))
		return
	}

	answer := h.assistant.HandleMessage(r.Context(), question, userIDFromContext(r.Context()), req.Skills)

	writeJSON(w, http.StatusOK, ChatResponse{Answer: answer})
}

func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	messages, err := h.userService.GetChatHistory(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatHistoryResponse{
		UserID:   userID,
		Messages: domainChatMessagesToHTTP(messages),
	})
}
