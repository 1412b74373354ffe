package handler

import "net/http"

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	teamStats, err := h.statsService.GetTeamStatusStats(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	governanceStats, err := h.statsService.GetGovernanceStats(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response := StatsResponse{
		TeamStats: make([]TeamStatusStatResponse, len(teamStats)),
		GovernanceStats: GovernanceStatResponse{
			ActiveDeletionVotes:   governanceStats.ActiveDeletionVotes,
			ActiveCompletionVotes: governanceStats.ActiveCompletionVotes,
			ActiveRemovalVotes:    governanceStats.ActiveRemovalVotes,
		},
	}

	for i, stat := range teamStats {
		response.TeamStats[i] = TeamStatusStatResponse{
			Status: string(stat.Status),
			Count:  stat.Count,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
