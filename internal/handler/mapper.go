package handler

import (
	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/service"
)

func domainTeamToHTTP(team *domain.Team) TeamResponse {
	memberRequests := make([]VoteRequestResponse, 0, len(team.MemberRequests))
	for _, r := range team.MemberRequests {
		resp := domainVoteRequestToHTTP(&r.VoteRequest)
		resp.TargetUserID = r.TargetUserID
		memberRequests = append(memberRequests, *resp)
	}

	tasks := make([]TaskResponse, 0, len(team.Tasks))
	for _, t := range team.Tasks {
		tasks = append(tasks, TaskResponse{
			ID:          t.ID,
			Description: t.Description,
			AssigneeID:  t.AssigneeID,
			Deadline:    t.Deadline,
		})
	}

	members := team.Members
	if members == nil {
		members = []string{}
	}
	skills := team.NeededSkills
	if skills == nil {
		skills = []string{}
	}

	return TeamResponse{
		TeamID:              team.ID,
		Name:                team.Name,
		Description:         team.Description,
		LeaderID:            team.LeaderID(),
		Members:             members,
		Status:              string(team.Status),
		IsLookingForMembers: team.IsLookingForMembers,
		NeededSkills:        skills,
		DeletionRequest:     domainVoteRequestToHTTP(team.DeletionRequest),
		CompletionRequest:   domainVoteRequestToHTTP(team.CompletionRequest),
		MemberRequests:      memberRequests,
		Tasks:               tasks,
	}
}

func domainVoteRequestToHTTP(r *domain.VoteRequest) *VoteRequestResponse {
	if r == nil {
		return nil
	}
	votes := make(map[string]string, len(r.Votes))
	for voter, choice := range r.Votes {
		votes[voter] = string(choice)
	}
	return &VoteRequestResponse{
		ID:          r.ID,
		InitiatorID: r.InitiatorID,
		IsActive:    r.IsActive,
		Votes:       votes,
		CreatedAt:   r.CreatedAt,
	}
}

func governanceResultToHTTP(result *service.GovernanceResult) VoteResponse {
	resp := VoteResponse{
		TeamID:       result.TeamID,
		Action:       string(result.Action),
		Outcome:      string(result.Outcome),
		TargetUserID: result.TargetUserID,
		Approvals:    result.Approvals,
		Required:     result.Required,
	}
	for _, f := range result.Followups {
		resp.Followups = append(resp.Followups, governanceResultToHTTP(f))
	}
	return resp
}

func domainNotificationsToHTTP(notifications []*domain.Notification) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, NotificationResponse{
			ID:        n.ID,
			SenderID:  n.SenderID,
			Message:   n.Message,
			Type:      string(n.Type),
			RelatedID: n.RelatedID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return result
}

func domainChatMessagesToHTTP(messages []*domain.ChatMessage) []ChatMessageResponse {
	result := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, ChatMessageResponse{
			Question:  m.Question,
			Answer:    m.Answer,
			CreatedAt: m.CreatedAt,
		})
	}
	return result
}
