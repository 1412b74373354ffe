package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/service"
)

// Assistant - единственная входящая операция ядра ассистента
type Assistant interface {
	HandleMessage(ctx context.Context, question, userID string, userSkills []string) string
}

type Handler struct {
	assistant    Assistant
	governance   service.GovernanceService
	teamService  service.TeamService
	userService  service.UserService
	statsService service.StatsService
	logger       *zap.Logger
}

func NewHandler(
	assistant Assistant,
	governance service.GovernanceService,
	teamService service.TeamService,
	userService service.UserService,
	statsService service.StatsService,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		assistant:    assistant,
		governance:   governance,
		teamService:  teamService,
		userService:  userService,
		statsService: statsService,
		logger:       logger,
	}
}
