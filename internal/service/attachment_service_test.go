package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

func TestDeleteAttachment_Twice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task, err := env.tasks.CreateTask(ctx, actorOf(env.manager), taskInput(env.project.ID), []*storage.Upload{
		textUpload("keep.txt", "keep"),
		textUpload("drop.txt", "drop"),
	})
	require.NoError(t, err)
	require.Len(t, task.Attachments, 2)
	drop := task.Attachments[1]
	owner := domain.EntityRef{Type: domain.EntityTypeTask, ID: task.ID}

	require.NoError(t, env.attachments.DeleteAttachment(ctx, actorOf(env.manager), drop.ID, owner))

	err = env.attachments.DeleteAttachment(ctx, actorOf(env.manager), drop.ID, owner)
	assert.True(t, response.IsCode(err, response.ErrCodeNotFound))

	assert.Equal(t, int64(1), env.count(t, &domain.Attachment{}), "the other attachment survives")
	assert.Len(t, env.storedFiles(t), 1)

	logs := env.activity(t, domain.ActionDeleteAttachment)
	require.Len(t, logs, 1)
	details := decodeDetails(t, logs[0])
	assert.Equal(t, "drop.txt", details["file_name"])
	assert.Equal(t, float64(4), details["file_size"])
}

func TestDeleteAttachment_WrongOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task, err := env.tasks.CreateTask(ctx, actorOf(env.manager), taskInput(env.project.ID), []*storage.Upload{textUpload("a.txt", "a")})
	require.NoError(t, err)

	err = env.attachments.DeleteAttachment(ctx, actorOf(env.manager), task.Attachments[0].ID,
		domain.EntityRef{Type: domain.EntityTypeBug, ID: task.ID})
	assert.True(t, response.IsCode(err, response.ErrCodeNotFound))
	assert.Equal(t, int64(1), env.count(t, &domain.Attachment{}))
}

func TestDeleteAttachment_MissingFileIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task, err := env.tasks.CreateTask(ctx, actorOf(env.manager), taskInput(env.project.ID), []*storage.Upload{textUpload("a.txt", "a")})
	require.NoError(t, err)

	var row domain.Attachment
	require.NoError(t, env.db.First(&row, task.Attachments[0].ID).Error)
	require.NoError(t, env.wf.Store.Delete(ctx, row.FilePath))

	err = env.attachments.DeleteAttachment(ctx, actorOf(env.manager), row.ID, row.Ref())
	require.NoError(t, err)
	assert.Zero(t, env.count(t, &domain.Attachment{}))
}

func TestDeleteAttachment_RowDeleteFailureIsLogged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task, err := env.tasks.CreateTask(ctx, actorOf(env.manager), taskInput(env.project.ID), []*storage.Upload{textUpload("a.txt", "a")})
	require.NoError(t, err)

	require.NoError(t, env.db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("disk I/O error"))
	}))

	err = env.attachments.DeleteAttachment(ctx, actorOf(env.manager), task.Attachments[0].ID,
		domain.EntityRef{Type: domain.EntityTypeTask, ID: task.ID})
	require.True(t, response.IsCode(err, response.ErrCodeInternal))
	assert.Len(t, env.activity(t, domain.ActionDeleteAttachmentError), 1)
	assert.Equal(t, int64(1), env.count(t, &domain.Attachment{}))
}

func TestOpenAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task, err := env.tasks.CreateTask(ctx, actorOf(env.manager), taskInput(env.project.ID), []*storage.Upload{textUpload("a.txt", "hello")})
	require.NoError(t, err)

	attachment, body, err := env.attachments.OpenAttachment(ctx, task.Attachments[0].ID)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "a.txt", attachment.OriginalName)

	_, _, err = env.attachments.OpenAttachment(ctx, 404)
	assert.True(t, response.IsCode(err, response.ErrCodeNotFound))
}
