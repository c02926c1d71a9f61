package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
)

func TestNotificationService_ReadFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	repo := repository.NewNotificationRepository(env.db)
	env.wf.Dispatcher = notification.NewDispatcher(repo, nil, nil, zap.NewNop())
	svc := NewNotificationService(repo)

	for i := 0; i < 3; i++ {
		_, err := env.tasks.CreateTask(ctx, actorOf(env.manager), taskInput(env.project.ID, env.developer.ID), nil)
		require.NoError(t, err)
	}

	page, err := svc.ListNotifications(ctx, env.developer.ID, false, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(3), page.Unread)
	assert.True(t, page.HasMore)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, string(domain.NotificationTaskAssignment), page.Notifications[0].Kind)

	read, err := svc.MarkAsRead(ctx, env.developer.ID, page.Notifications[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = svc.MarkAsRead(ctx, env.qa.ID, page.Notifications[1].ID)
	assert.True(t, response.IsCode(err, response.ErrCodeNotFound), "other users' notifications are hidden")

	unread, err := svc.ListNotifications(ctx, env.developer.ID, true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread.Total)
	assert.Equal(t, 20, unread.Limit)
	assert.False(t, unread.HasMore)
}

func TestActivityService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := seedAssignedTask(t, env, env.project.ID)
	_, err := env.tasks.UpdateTaskStatus(ctx, actorOf(env.developer), task.ID, "in_progress")
	require.NoError(t, err)

	svc := NewActivityService(repository.NewActivityLogRepository(env.db))
	resp, err := svc.ListActivityLogs(ctx, &dto.ActivityLogQuery{EntityType: "task", EntityID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Logs, 2)
	assert.Equal(t, domain.ActionUpdateStatus, resp.Logs[0].Action, "newest first")
	assert.JSONEq(t, `{"from":"todo","to":"in_progress"}`, string(mustField(t, resp.Logs[0].Details, "status_change")))

	_, err = svc.ListActivityLogs(ctx, &dto.ActivityLogQuery{EntityType: "sprint"})
	assert.True(t, response.IsCode(err, response.ErrCodeValidation))
}
