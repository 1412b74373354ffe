package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/collabquest-assistant/internal/domain"
)

func TestUserService_GetNotifications(t *testing.T) {
	t.Run("успешное получение с лимитом по умолчанию", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		notificationRepo := new(MockNotificationRepository)
		service := NewUserService(userRepo, notificationRepo, new(MockChatRepository))
		ctx := context.Background()

		userRepo.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
		notificationRepo.On("ListByRecipient", mock.Anything, "u1", defaultNotificationLimit).
			Return([]*domain.Notification{{ID: "n1", RecipientID: "u1"}}, nil).Once()

		result, err := service.GetNotifications(ctx, "u1", 0)

		require.NoError(t, err)
		assert.Len(t, result, 1)
		userRepo.AssertExpectations(t)
		notificationRepo.AssertExpectations(t)
	})

	t.Run("лимит ограничен сверху", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		notificationRepo := new(MockNotificationRepository)
		service := NewUserService(userRepo, notificationRepo, new(MockChatRepository))

		userRepo.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
		notificationRepo.On("ListByRecipient", mock.Anything, "u1", maxNotificationLimit).Return(nil, nil).Once()

		result, err := service.GetNotifications(context.Background(), "u1", 10000)

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("ошибка: пользователь не найден", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		notificationRepo := new(MockNotificationRepository)
		service := NewUserService(userRepo, notificationRepo, new(MockChatRepository))

		userRepo.On("GetByID", mock.Anything, "u404").Return(nil, domain.NewNotFoundError("user")).Once()

		result, err := service.GetNotifications(context.Background(), "u404", 10)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		notificationRepo.AssertNotCalled(t, "ListByRecipient", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_GetChatHistory(t *testing.T) {
	userRepo := new(MockUserRepository)
	chatRepo := new(MockChatRepository)
	service := NewUserService(userRepo, new(MockNotificationRepository), chatRepo)

	userRepo.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
	chatRepo.On("ListAll", mock.Anything, "u1").Return([]*domain.ChatMessage{{ID: 1, Question: "q"}}, nil).Once()

	history, err := service.GetChatHistory(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "q", history[0].Question)
}

func TestTeamService_GetTeam(t *testing.T) {
	t.Run("успешное получение", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		service := NewTeamService(teamRepo)

		teamRepo.On("GetByID", mock.Anything, "t1").Return(&domain.Team{ID: "t1", Name: "Alpha"}, nil).Once()

		team, err := service.GetTeam(context.Background(), "t1")

		require.NoError(t, err)
		assert.Equal(t, "Alpha", team.Name)
	})

	t.Run("ошибка: команда не найдена", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		service := NewTeamService(teamRepo)

		teamRepo.On("GetByID", mock.Anything, "t404").Return(nil, domain.NewNotFoundError("team")).Once()

		_, err := service.GetTeam(context.Background(), "t404")

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Contains(t, err.Error(), "t404")
	})
}

func TestTeamService_ListLedBy(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	service := NewTeamService(teamRepo)

	teamRepo.On("ListLedBy", mock.Anything, "u1").Return(nil, nil).Once()

	teams, err := service.ListLedBy(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, teams)
}

func TestStatsService(t *testing.T) {
	statsRepo := new(MockStatsRepository)
	service := NewStatsService(statsRepo)
	ctx := context.Background()

	statsRepo.On("GetTeamStatusStats", mock.Anything).Return([]*domain.TeamStatusStat{{Status: domain.TeamStatusActive, Count: 2}}, nil).Once()
	statsRepo.On("GetGovernanceStats", mock.Anything).Return(&domain.GovernanceStat{ActiveRemovalVotes: 1}, nil).Once()

	statuses, err := service.GetTeamStatusStats(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 1)

	governance, err := service.GetGovernanceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, governance.ActiveRemovalVotes)
}
