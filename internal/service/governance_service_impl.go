package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/metrics"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

const (
	transitionInitiated = "initiated"
	transitionVoted     = "voted"
	transitionApplied   = "applied"
	transitionRejected  = "rejected"
)

type governanceService struct {
	teamRepo   repository.TeamRepository
	notifier   Notifier
	policies   map[domain.GovernanceAction]domain.QuorumPolicy
	maxRetries int
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewGovernanceService создает новый экземпляр GovernanceService
func NewGovernanceService(
	teamRepo repository.TeamRepository,
	notifier Notifier,
	cfg GovernanceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) GovernanceService {
	if logger == nil {
		logger = zap.NewNop()
	}

	policies := make(map[domain.GovernanceAction]domain.QuorumPolicy)
	for action, rule := range DefaultQuorums() {
		policies[action] = domain.QuorumPolicy{Rule: rule}
	}
	for action, rule := range cfg.Quorums {
		policies[action] = domain.QuorumPolicy{Rule: rule}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &governanceService{
		teamRepo:   teamRepo,
		notifier:   notifier,
		policies:   policies,
		maxRetries: maxRetries,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// change - результат применения операции к прочитанной версии команды.
// Побочные эффекты выполняются только после успешного сохранения.
type change struct {
	result        *GovernanceResult
	task          *domain.Task
	noop          bool
	deleteTeam    bool
	purgeUserIDs  []string
	notifications []*domain.Notification
	transitions   []string
	// followups - голосования, завершившиеся из-за изменения состава команды
	followups []*change
}

func (s *governanceService) InitiateDeletion(ctx context.Context, teamID, initiatorID string) (*GovernanceResult, error) {
	return s.initiate(ctx, domain.ActionDelete, teamID, initiatorID, "")
}

func (s *governanceService) InitiateCompletion(ctx context.Context, teamID, initiatorID string) (*GovernanceResult, error) {
	return s.initiate(ctx, domain.ActionComplete, teamID, initiatorID, "")
}

func (s *governanceService) InitiateRemoval(ctx context.Context, teamID, initiatorID, targetUserID string) (*GovernanceResult, error) {
	return s.initiate(ctx, domain.ActionRemoveMember, teamID, initiatorID, targetUserID)
}

func (s *governanceService) initiate(ctx context.Context, action domain.GovernanceAction, teamID, initiatorID, targetUserID string) (*GovernanceResult, error) {
	c, err := s.mutate(ctx, teamID, func(team *domain.Team) (*change, error) {
		if !team.IsLeader(initiatorID) {
			return nil, domain.ErrNotLeader
		}
		if team.Status == domain.TeamStatusCompleted && action != domain.ActionDelete {
			return nil, domain.ErrTeamCompleted
		}
		if action == domain.ActionRemoveMember {
			return s.initiateRemoval(team, initiatorID, targetUserID)
		}
		return s.initiateTeamAction(team, action, initiatorID)
	})
	if err != nil {
		return nil, err
	}
	return c.result, nil
}

func (s *governanceService) initiateTeamAction(team *domain.Team, action domain.GovernanceAction, initiatorID string) (*change, error) {
	if req := teamRequest(team, action); req != nil && req.IsActive {
		return nil, domain.ErrVoteAlreadyActive
	}

	c := &change{result: newResult(team, action, "")}
	if len(team.Members) == 1 {
		c.result.Immediate = true
		s.apply(team, action, initiatorID, "", c, false)
		return c, nil
	}

	req := domain.NewVoteRequest(s.newID(), initiatorID, s.now())
	setTeamRequest(team, action, req)
	c.transitions = append(c.transitions, transitionInitiated)
	s.settle(team, action, req, initiatorID, "", c)
	if c.result.Outcome == domain.OutcomePending {
		c.notifications = s.voteRequestNotifications(team, action, initiatorID, "")
	}
	return c, nil
}

func (s *governanceService) initiateRemoval(team *domain.Team, initiatorID, targetUserID string) (*change, error) {
	if team.IsLeader(targetUserID) {
		return nil, domain.ErrLeaderRemoval
	}
	if !team.HasMember(targetUserID) {
		return nil, domain.ErrNotAMember
	}
	if team.ActiveMemberRequest(targetUserID) != nil {
		return nil, domain.ErrVoteAlreadyActive
	}

	action := domain.ActionRemoveMember
	c := &change{result: newResult(team, action, targetUserID)}

	// в фазе планирования участник исключается без голосования
	if team.Status == domain.TeamStatusPlanning {
		c.result.Immediate = true
		s.apply(team, action, initiatorID, targetUserID, c, true)
		return c, nil
	}

	team.MemberRequests = append(team.MemberRequests, domain.MemberRequest{
		VoteRequest:  *domain.NewVoteRequest(s.newID(), initiatorID, s.now()),
		Type:         domain.MemberRequestRemove,
		TargetUserID: targetUserID,
	})
	req := &team.MemberRequests[len(team.MemberRequests)-1].VoteRequest
	c.transitions = append(c.transitions, transitionInitiated)
	s.settle(team, action, req, initiatorID, targetUserID, c)
	if c.result.Outcome == domain.OutcomePending {
		c.notifications = s.voteRequestNotifications(team, action, initiatorID, targetUserID)
	}
	return c, nil
}

func (s *governanceService) CastVote(ctx context.Context, cmd VoteCommand) (*GovernanceResult, error) {
	if !cmd.Action.Valid() || !cmd.Choice.Valid() {
		return nil, domain.ErrInvalidVote
	}

	c, err := s.mutate(ctx, cmd.TeamID, func(team *domain.Team) (*change, error) {
		if !team.HasMember(cmd.VoterID) {
			return nil, domain.ErrNotAMember
		}
		if team.Status == domain.TeamStatusCompleted && cmd.Action != domain.ActionDelete {
			return nil, domain.ErrTeamCompleted
		}

		var req *domain.VoteRequest
		if cmd.Action == domain.ActionRemoveMember {
			if cmd.VoterID == cmd.TargetUserID {
				return nil, domain.ErrNotEligible
			}
			if mr := team.ActiveMemberRequest(cmd.TargetUserID); mr != nil {
				req = &mr.VoteRequest
			}
		} else {
			req = teamRequest(team, cmd.Action)
		}
		if req == nil || !req.IsActive {
			return nil, domain.ErrNoActiveVote
		}

		c := &change{result: newResult(team, cmd.Action, cmd.TargetUserID)}
		changed := req.Record(cmd.VoterID, cmd.Choice)
		s.settle(team, cmd.Action, req, cmd.VoterID, cmd.TargetUserID, c)
		if !changed && c.result.Outcome == domain.OutcomePending {
			c.noop = true
			return c, nil
		}
		c.transitions = append([]string{transitionVoted}, c.transitions...)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return c.result, nil
}

func (s *governanceService) AssignTask(ctx context.Context, teamID, requesterID string, extracted *ExtractedTask) (*domain.Task, error) {
	if extracted == nil {
		return nil, domain.NewExtractionError("empty task")
	}

	c, err := s.mutate(ctx, teamID, func(team *domain.Team) (*change, error) {
		if !team.IsLeader(requesterID) {
			return nil, domain.ErrNotLeader
		}
		if team.Status == domain.TeamStatusCompleted {
			return nil, domain.ErrTeamCompleted
		}
		if !team.HasMember(extracted.AssigneeID) {
			return nil, domain.ErrNotAMember
		}

		now := s.now()
		task := domain.Task{
			ID:          s.newID(),
			Description: extracted.Description,
			AssigneeID:  extracted.AssigneeID,
			Deadline:    now.AddDate(0, 0, extracted.Days),
			CreatedAt:   now,
		}
		team.Tasks = append(team.Tasks, task)

		c := &change{task: &task}
		if extracted.AssigneeID != requesterID {
			c.notifications = append(c.notifications, &domain.Notification{
				RecipientID: extracted.AssigneeID,
				SenderID:    requesterID,
				Message: fmt.Sprintf("You have a new task in %q: %s (due %s)",
					team.Name, task.Description, task.Deadline.Format(time.DateOnly)),
				Type:      domain.NotificationTaskAssigned,
				RelatedID: team.ID,
			})
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return c.task, nil
}

// mutate выполняет read-modify-write над командой и повторяет его при
// конфликте версий не более maxRetries раз.
func (s *governanceService) mutate(ctx context.Context, teamID string, fn func(team *domain.Team) (*change, error)) (*change, error) {
	for attempt := 0; ; attempt++ {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewNotFoundError("team with id " + teamID)
			}
			return nil, err
		}

		c, err := fn(team)
		if err != nil {
			return nil, err
		}
		if c.noop {
			return c, nil
		}

		err = s.commit(ctx, team, c)
		if errors.Is(err, domain.ErrVersionConflict) && attempt < s.maxRetries {
			s.logger.Debug("team version conflict, retrying",
				zap.String("team_id", teamID),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.afterCommit(ctx, team, c)
		return c, nil
	}
}

func (s *governanceService) commit(ctx context.Context, team *domain.Team, c *change) error {
	if c.deleteTeam {
		return s.teamRepo.Delete(ctx, team.ID, team.Version)
	}
	now := s.now()
	team.UpdatedAt = &now
	if len(c.purgeUserIDs) > 0 {
		return s.teamRepo.SaveWithPurge(ctx, team, c.purgeUserIDs)
	}
	return s.teamRepo.Save(ctx, team)
}

func (s *governanceService) afterCommit(ctx context.Context, team *domain.Team, c *change) {
	for _, applied := range append([]*change{c}, c.followups...) {
		if applied.result == nil {
			continue
		}
		for _, t := range applied.transitions {
			s.metrics.ObserveTransition(string(applied.result.Action), t)
		}
		s.logger.Info("governance transition",
			zap.String("team_id", team.ID),
			zap.String("action", string(applied.result.Action)),
			zap.String("outcome", string(applied.result.Outcome)),
			zap.Bool("immediate", applied.result.Immediate),
			zap.Bool("followup", applied != c))
	}

	if len(c.notifications) > 0 && s.notifier != nil {
		s.notifier.Notify(ctx, c.notifications)
	}
}

// settle подсчитывает голоса и закрывает запрос, если исход определен
func (s *governanceService) settle(team *domain.Team, action domain.GovernanceAction, req *domain.VoteRequest, actorID, targetUserID string, c *change) {
	eligible := eligibleVoters(team, action, targetUserID)
	votes := eligibleVotes(req.Votes, eligible)
	policy := s.policies[action]

	c.result.Approvals, _ = countVotes(votes)
	c.result.Required = policy.RequiredApprovals(len(eligible))
	c.result.Outcome = policy.Evaluate(len(eligible), votes)

	switch c.result.Outcome {
	case domain.OutcomeApproved:
		req.IsActive = false
		s.apply(team, action, actorID, targetUserID, c, true)
	case domain.OutcomeRejected:
		req.IsActive = false
		c.transitions = append(c.transitions, transitionRejected)
		if req.InitiatorID != actorID {
			c.notifications = append(c.notifications, &domain.Notification{
				RecipientID: req.InitiatorID,
				SenderID:    actorID,
				Message:     fmt.Sprintf("The vote to %s in %q was rejected", describeAction(action), team.Name),
				Type:        domain.NotificationVoteRejected,
				RelatedID:   team.ID,
			})
		}
	}
}

// apply применяет одобренное действие к команде. notify=false для команды
// из одного участника: уведомлять некого.
func (s *governanceService) apply(team *domain.Team, action domain.GovernanceAction, actorID, targetUserID string, c *change, notify bool) {
	c.result.Outcome = domain.OutcomeApproved
	c.transitions = append(c.transitions, transitionApplied)

	switch action {
	case domain.ActionDelete:
		c.deleteTeam = true
		if notify {
			for _, recipient := range SelectRecipients(team.Members, actorID) {
				c.notifications = append(c.notifications, &domain.Notification{
					RecipientID: recipient,
					SenderID:    actorID,
					Message:     fmt.Sprintf("Project %q has been deleted", team.Name),
					Type:        domain.NotificationProjectDeleted,
					RelatedID:   team.ID,
				})
			}
		}
	case domain.ActionComplete:
		team.Status = domain.TeamStatusCompleted
		team.IsLookingForMembers = false
		if notify {
			for _, recipient := range SelectRecipients(team.Members, actorID) {
				c.notifications = append(c.notifications, &domain.Notification{
					RecipientID: recipient,
					SenderID:    actorID,
					Message:     fmt.Sprintf("Project %q has been marked as completed", team.Name),
					Type:        domain.NotificationProjectCompleted,
					RelatedID:   team.ID,
				})
			}
		}
	case domain.ActionRemoveMember:
		team.RemoveMember(targetUserID)
		c.purgeUserIDs = append(c.purgeUserIDs, targetUserID)
		if notify {
			c.notifications = append(c.notifications, &domain.Notification{
				RecipientID: targetUserID,
				SenderID:    actorID,
				Message:     fmt.Sprintf("You have been removed from project %q", team.Name),
				Type:        domain.NotificationMemberRemoved,
				RelatedID:   team.ID,
			})
		}
		s.resettleOpen(team, actorID, c)
	}
}

// resettleOpen пересчитывает открытые голосования после исключения участника:
// число голосующих уменьшилось, и кворум мог уже набраться.
func (s *governanceService) resettleOpen(team *domain.Team, actorID string, c *change) {
	for _, action := range []domain.GovernanceAction{domain.ActionDelete, domain.ActionComplete} {
		if req := teamRequest(team, action); req != nil && req.IsActive {
			s.resettle(team, action, req, actorID, "", c)
		}
	}
	for i := range team.MemberRequests {
		mr := &team.MemberRequests[i]
		if !mr.IsActive {
			continue
		}
		if !team.HasMember(mr.TargetUserID) {
			mr.IsActive = false
			continue
		}
		s.resettle(team, domain.ActionRemoveMember, &mr.VoteRequest, actorID, mr.TargetUserID, c)
	}
}

func (s *governanceService) resettle(team *domain.Team, action domain.GovernanceAction, req *domain.VoteRequest, actorID, targetUserID string, c *change) {
	sub := &change{result: newResult(team, action, targetUserID)}
	s.settle(team, action, req, actorID, targetUserID, sub)
	if sub.result.Outcome == domain.OutcomePending {
		return
	}

	c.followups = append(c.followups, sub)
	c.followups = append(c.followups, sub.followups...)
	c.deleteTeam = c.deleteTeam || sub.deleteTeam
	c.purgeUserIDs = append(c.purgeUserIDs, sub.purgeUserIDs...)
	c.notifications = append(c.notifications, sub.notifications...)
	c.result.Followups = append(c.result.Followups, sub.result)
}

func (s *governanceService) voteRequestNotifications(team *domain.Team, action domain.GovernanceAction, initiatorID, targetUserID string) []*domain.Notification {
	recipients := SelectRecipients(team.Members, initiatorID)
	notifications := make([]*domain.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		notifications = append(notifications, &domain.Notification{
			RecipientID: recipient,
			SenderID:    initiatorID,
			Message:     fmt.Sprintf("A vote to %s in %q has started. Please cast your vote.", describeAction(action), team.Name),
			Type:        domain.NotificationVoteRequest,
			RelatedID:   team.ID,
		})
	}
	return notifications
}

func newResult(team *domain.Team, action domain.GovernanceAction, targetUserID string) *GovernanceResult {
	return &GovernanceResult{
		Action:       action,
		Outcome:      domain.OutcomePending,
		TeamID:       team.ID,
		TeamName:     team.Name,
		TargetUserID: targetUserID,
	}
}

func teamRequest(team *domain.Team, action domain.GovernanceAction) *domain.VoteRequest {
	switch action {
	case domain.ActionDelete:
		return team.DeletionRequest
	case domain.ActionComplete:
		return team.CompletionRequest
	}
	return nil
}

func setTeamRequest(team *domain.Team, action domain.GovernanceAction, req *domain.VoteRequest) {
	switch action {
	case domain.ActionDelete:
		team.DeletionRequest = req
	case domain.ActionComplete:
		team.CompletionRequest = req
	}
}

// eligibleVoters: все участники, при исключении - все, кроме цели
func eligibleVoters(team *domain.Team, action domain.GovernanceAction, targetUserID string) []string {
	if action == domain.ActionRemoveMember {
		return SelectRecipients(team.Members, targetUserID)
	}
	return SelectRecipients(team.Members)
}

// eligibleVotes отбрасывает голоса тех, кто больше не может голосовать
func eligibleVotes(votes map[string]domain.VoteChoice, eligible []string) map[string]domain.VoteChoice {
	filtered := make(map[string]domain.VoteChoice, len(votes))
	for _, id := range eligible {
		if v, ok := votes[id]; ok {
			filtered[id] = v
		}
	}
	return filtered
}

func countVotes(votes map[string]domain.VoteChoice) (approvals, rejections int) {
	for _, v := range votes {
		switch v {
		case domain.VoteApprove:
			approvals++
		case domain.VoteReject:
			rejections++
		}
	}
	return approvals, rejections
}

func describeAction(action domain.GovernanceAction) string {
	switch action {
	case domain.ActionDelete:
		return "delete the project"
	case domain.ActionComplete:
		return "complete the project"
	case domain.ActionRemoveMember:
		return "remove a member"
	}
	return string(action)
}
