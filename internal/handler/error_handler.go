package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

var errUnauthorized = &domain.DomainError{
	Code:    "UNAUTHORIZED",
	Message: "X-User-ID header is required",
}

func badRequest(message string) *domain.DomainError {
	return &domain.DomainError{Code: "BAD_REQUEST", Message: message}
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, getStatusCode(domainErr.Code), ErrorResponse{
			Error: ErrorDetail{
				Code:    domainErr.Code,
				Message: domainErr.Message,
			},
		})
		return
	}

	h.logger.Error("unhandled error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		},
	})
}

func getStatusCode(errorCode string) int {
	switch errorCode {
	case "BAD_REQUEST", "INVALID_VOTE":
		return http.StatusBadRequest
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "NOT_LEADER", "SELF_REMOVAL", "LEADER_REMOVAL", "NOT_A_MEMBER", "NOT_ELIGIBLE":
		return http.StatusForbidden
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VOTE_ALREADY_ACTIVE", "TEAM_COMPLETED", "NO_ACTIVE_VOTE", "VERSION_CONFLICT":
		return http.StatusConflict
	case "RESOLUTION_NOT_FOUND", "EXTRACTION_FAILURE":
		return http.StatusUnprocessableEntity
	case "TRANSIENT_UPSTREAM":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
