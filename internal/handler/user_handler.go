package handler

import (
	"net/http"
	"strconv"
)

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.handleError(w, badRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	notifications, err := h.userService.GetNotifications(r.Context(), userID, limit)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NotificationsResponse{
		UserID:        userID,
		Notifications: domainNotificationsToHTTP(notifications),
	})
}
