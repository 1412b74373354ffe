package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/service"
)

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainTeamToHTTP(team))
}

// CastVote записывает голос участника по активному запросу команды
func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, badRequest("invalid request body"))
		return
	}

	action := domain.GovernanceAction(req.Action)
	if !action.Valid() {
		h.handleError(w, badRequest("action must be one of delete, complete, remove_member"))
		return
	}
	if action == domain.ActionRemoveMember && req.TargetUserID == "" {
		h.handleError(w, badRequest("target_user_id is required for remove_member"))
		return
	}

	result, err := h.governance.CastVote(r.Context(), service.VoteCommand{
		TeamID:       chi.URLParam(r, "teamID"),
		Action:       action,
		TargetUserID: req.TargetUserID,
		VoterID:      userIDFromContext(r.Context()),
		Choice:       domain.VoteChoice(req.Choice),
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, governanceResultToHTTP(result))
}
