package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
	"github.com/bagdasarian/collabquest-assistant/internal/repository"
)

const (
	ApologyResponse = "Sorry, I ran into an issue processing your request."

	defaultHistoryWindow = 10
)

// commandTemplates - ожидаемый синтаксис команд, который показывается при неудачном разборе
var commandTemplates = map[domain.Intent]string{
	domain.IntentDeleteProject:   "delete project <project name>",
	domain.IntentCompleteProject: "complete project <project name>",
	domain.IntentRemoveMember:    "remove <member name> from <project name>",
	domain.IntentAssignTask:      "assign <task> to <member name> in <project name> within <N> days",
}

// CommandTemplate возвращает шаблон команды для интента или пустую строку
func CommandTemplate(intent domain.Intent) string {
	return commandTemplates[intent]
}

type OrchestratorDeps struct {
	Classifier *IntentClassifier
	Resolver   *TargetResolver
	Extractor  *TaskExtractor
	Governance GovernanceService
	Planner    Responder
	Coder      Responder
	Searcher   Responder
	Chatter    Responder
	TeamRepo   repository.TeamRepository
	UserRepo   repository.UserRepository
	ChatRepo   repository.ChatRepository
	// HistoryWindow - число последних обменов, передаваемых в chatter и coder
	HistoryWindow int
	Logger        *zap.Logger
}

// Orchestrator проводит запрос через classify -> dispatch -> execute.
// Каждый этап выполняется ровно один раз.
type Orchestrator struct {
	classifier    *IntentClassifier
	resolver      *TargetResolver
	extractor     *TaskExtractor
	governance    GovernanceService
	planner       Responder
	coder         Responder
	searcher      Responder
	chatter       Responder
	teamRepo      repository.TeamRepository
	userRepo      repository.UserRepository
	chatRepo      repository.ChatRepository
	historyWindow int
	logger        *zap.Logger
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	window := deps.HistoryWindow
	if window <= 0 {
		window = defaultHistoryWindow
	}
	return &Orchestrator{
		classifier:    deps.Classifier,
		resolver:      deps.Resolver,
		extractor:     deps.Extractor,
		governance:    deps.Governance,
		planner:       deps.Planner,
		coder:         deps.Coder,
		searcher:      deps.Searcher,
		chatter:       deps.Chatter,
		teamRepo:      deps.TeamRepo,
		userRepo:      deps.UserRepo,
		chatRepo:      deps.ChatRepo,
		historyWindow: window,
		logger:        logger,
	}
}

// HandleMessage всегда возвращает текст ответа; ошибки превращаются в сообщение пользователю
func (o *Orchestrator) HandleMessage(ctx context.Context, question, userID string, userSkills []string) (response string) {
	started := time.Now()
	state := &domain.AgentState{
		Question:   question,
		UserID:     userID,
		UserSkills: userSkills,
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic while handling message",
				zap.String("user_id", userID),
				zap.Any("panic", r))
			response = ApologyResponse
		}
	}()

	state.Intent = o.classifier.Classify(ctx, question)
	if state.Intent == domain.IntentGeneralQuery || state.Intent == domain.IntentCodeRequest {
		state.History = o.loadHistory(ctx, userID)
	}

	answer, err := o.dispatch(ctx, state)
	if err != nil {
		answer = o.errorResponse(state, err)
	}
	state.FinalResponse = answer

	o.saveExchange(ctx, state)
	o.logger.Info("message handled",
		zap.String("user_id", userID),
		zap.String("intent", state.Intent.String()),
		zap.Bool("failed", err != nil),
		zap.Duration("elapsed", time.Since(started)))

	return state.FinalResponse
}

func (o *Orchestrator) dispatch(ctx context.Context, state *domain.AgentState) (string, error) {
	var (
		answer string
		err    error
	)
	if state.Intent.IsGovernance() {
		answer, err = o.handleGovernance(ctx, state)
	} else {
		answer, err = o.respond(ctx, state)
	}
	return answer, upstreamError(err)
}

func (o *Orchestrator) respond(ctx context.Context, state *domain.AgentState) (string, error) {
	switch state.Intent {
	case domain.IntentGeneralQuery:
		return o.chatter.Respond(ctx, state)
	case domain.IntentCreateProject:
		return o.planner.Respond(ctx, state)
	case domain.IntentCodeRequest:
		return o.coder.Respond(ctx, state)
	case domain.IntentSearchRequest:
		return o.searcher.Respond(ctx, state)
	default:
		return o.chatter.Respond(ctx, state)
	}
}

func (o *Orchestrator) handleGovernance(ctx context.Context, state *domain.AgentState) (string, error) {
	teams, err := o.teamRepo.ListLedBy(ctx, state.UserID)
	if err != nil {
		return "", fmt.Errorf("list teams led by user: %w", err)
	}

	team, err := o.resolver.ResolveTeam(ctx, state.Question, teams)
	if err != nil {
		return "", err
	}

	switch state.Intent {
	case domain.IntentDeleteProject:
		result, err := o.governance.InitiateDeletion(ctx, team.ID, state.UserID)
		if err != nil {
			return "", err
		}
		return describeResult(result, ""), nil

	case domain.IntentCompleteProject:
		result, err := o.governance.InitiateCompletion(ctx, team.ID, state.UserID)
		if err != nil {
			return "", err
		}
		return describeResult(result, ""), nil

	case domain.IntentRemoveMember:
		members, err := o.userRepo.GetByIDs(ctx, team.Members)
		if err != nil {
			return "", fmt.Errorf("load team members: %w", err)
		}
		target, err := o.resolver.ResolveMember(ctx, state.Question, state.UserID, members)
		if err != nil {
			return "", err
		}
		result, err := o.governance.InitiateRemoval(ctx, team.ID, state.UserID, target.ID)
		if err != nil {
			return "", err
		}
		return describeResult(result, target.DisplayName()) + describeFollowups(result), nil

	case domain.IntentAssignTask:
		members, err := o.userRepo.GetByIDs(ctx, team.Members)
		if err != nil {
			return "", fmt.Errorf("load team members: %w", err)
		}
		extracted, err := o.extractor.Extract(ctx, state.Question, members)
		if err != nil {
			return "", err
		}
		task, err := o.governance.AssignTask(ctx, team.ID, state.UserID, extracted)
		if err != nil {
			return "", err
		}
		assignee := task.AssigneeID
		for _, m := range members {
			if m.ID == task.AssigneeID {
				assignee = m.DisplayName()
			}
		}
		return fmt.Sprintf("Task %q assigned to %s in %q, due %s.",
			task.Description, assignee, team.Name, task.Deadline.Format(time.DateOnly)), nil
	}

	return "", fmt.Errorf("intent %s is not a governance intent", state.Intent)
}

// errorResponse переводит ошибку в текст для пользователя
func (o *Orchestrator) errorResponse(state *domain.AgentState, err error) string {
	template := CommandTemplate(state.Intent)

	switch {
	case errors.Is(err, domain.ErrResolutionNotFound):
		return "I couldn't tell which project or member you mean. Please phrase it as: " + template
	case errors.Is(err, domain.ErrExtractionFailure):
		if template != "" {
			return "I couldn't understand the details of that request. Please phrase it as: " + template
		}
		return "I couldn't turn that into a project plan. Please describe your project idea in a sentence or two."
	case errors.Is(err, domain.ErrNotLeader):
		return "Only the project leader can do that."
	case errors.Is(err, domain.ErrSelfRemoval):
		return "You can't remove yourself from your own project."
	case errors.Is(err, domain.ErrLeaderRemoval):
		return "The project leader can't be removed."
	case errors.Is(err, domain.ErrNotAMember):
		return "That person is not a member of this project."
	case errors.Is(err, domain.ErrVoteAlreadyActive):
		return "A vote for this action is already active. Wait for your team to finish voting."
	case errors.Is(err, domain.ErrTeamCompleted):
		return "This project is already completed; it can only be deleted."
	case errors.Is(err, domain.ErrVersionConflict):
		return "Your team was being updated at the same moment. Please try again."
	case errors.Is(err, domain.ErrTransientUpstream):
		o.logger.Warn("upstream unavailable",
			zap.String("user_id", state.UserID),
			zap.String("intent", state.Intent.String()),
			zap.Bool("transient", llm.IsTransient(err)),
			zap.Error(err))
		return ApologyResponse
	}

	o.logger.Warn("request failed",
		zap.String("user_id", state.UserID),
		zap.String("intent", state.Intent.String()),
		zap.Error(err))
	return ApologyResponse
}

// upstreamError помечает ошибки шлюза модели как TRANSIENT_UPSTREAM
func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if llm.IsTransient(err) || llm.IsFatal(err) {
		return fmt.Errorf("%w: %w", domain.ErrTransientUpstream, err)
	}
	return err
}

func (o *Orchestrator) loadHistory(ctx context.Context, userID string) []*domain.ChatMessage {
	if o.chatRepo == nil {
		return nil
	}
	history, err := o.chatRepo.ListRecent(ctx, userID, o.historyWindow)
	if err != nil {
		o.logger.Warn("failed to load chat history", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return history
}

func (o *Orchestrator) saveExchange(ctx context.Context, state *domain.AgentState) {
	if o.chatRepo == nil {
		return
	}
	msg := &domain.ChatMessage{
		UserID:   state.UserID,
		Question: state.Question,
		Answer:   state.FinalResponse,
	}
	if err := o.chatRepo.Create(context.WithoutCancel(ctx), msg); err != nil {
		o.logger.Warn("failed to save chat message", zap.String("user_id", state.UserID), zap.Error(err))
	}
}

// describeFollowups описывает голосования, закрытые вслед за исключением участника
func describeFollowups(result *GovernanceResult) string {
	var text string
	for _, f := range result.Followups {
		text += " " + describeResult(f, f.TargetUserID) + describeFollowups(f)
	}
	return text
}

func describeResult(result *GovernanceResult, targetName string) string {
	switch result.Action {
	case domain.ActionDelete:
		switch result.Outcome {
		case domain.OutcomeApproved:
			return fmt.Sprintf("Project %q has been deleted.", result.TeamName)
		case domain.OutcomeRejected:
			return fmt.Sprintf("The vote to delete %q was rejected.", result.TeamName)
		}
		return fmt.Sprintf("A vote to delete %q has started: %d of %d approvals so far. Your team has been notified.",
			result.TeamName, result.Approvals, result.Required)

	case domain.ActionComplete:
		switch result.Outcome {
		case domain.OutcomeApproved:
			return fmt.Sprintf("Project %q is now marked as completed.", result.TeamName)
		case domain.OutcomeRejected:
			return fmt.Sprintf("The vote to complete %q was rejected.", result.TeamName)
		}
		return fmt.Sprintf("A vote to complete %q has started: %d of %d approvals so far. Your team has been notified.",
			result.TeamName, result.Approvals, result.Required)

	case domain.ActionRemoveMember:
		switch result.Outcome {
		case domain.OutcomeApproved:
			return fmt.Sprintf("%s has been removed from %q.", targetName, result.TeamName)
		case domain.OutcomeRejected:
			return fmt.Sprintf("The vote to remove %s from %q was rejected.", targetName, result.TeamName)
		}
		return fmt.Sprintf("A vote to remove %s from %q has started: %d of %d approvals so far. Your team has been notified.",
			targetName, result.TeamName, result.Approvals, result.Required)
	}
	return ApologyResponse
}
