package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

func newAttachment(ref domain.EntityRef, name string) *domain.Attachment {
	return &domain.Attachment{
		EntityType:   ref.Type,
		EntityID:     ref.ID,
		FileName:     name,
		OriginalName: name,
		FilePath:     "tasks/1/" + name,
		FileSize:     128,
		FileType:     "text/plain",
		UploadedBy:   1,
		UploadedAt:   time.Now().UTC(),
	}
}

func TestAttachmentRepository_FindByEntity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttachmentRepository(db)
	ctx := context.Background()

	taskRef := domain.EntityRef{Type: domain.EntityTypeTask, ID: 1}
	bugRef := domain.EntityRef{Type: domain.EntityTypeBug, ID: 1}
	require.NoError(t, repo.Create(ctx, newAttachment(taskRef, "a.txt")))
	require.NoError(t, repo.Create(ctx, newAttachment(taskRef, "b.txt")))
	require.NoError(t, repo.Create(ctx, newAttachment(bugRef, "c.txt")))

	got, err := repo.FindByEntity(ctx, taskRef)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, domain.EntityTypeTask, a.EntityType)
	}
}

func TestAttachmentRepository_FindByEntities(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttachmentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAttachment(domain.EntityRef{Type: domain.EntityTypeComment, ID: 1}, "a.txt")))
	require.NoError(t, repo.Create(ctx, newAttachment(domain.EntityRef{Type: domain.EntityTypeComment, ID: 2}, "b.txt")))
	require.NoError(t, repo.Create(ctx, newAttachment(domain.EntityRef{Type: domain.EntityTypeComment, ID: 2}, "c.txt")))
	require.NoError(t, repo.Create(ctx, newAttachment(domain.EntityRef{Type: domain.EntityTypeTask, ID: 2}, "d.txt")))

	got, err := repo.FindByEntities(ctx, domain.EntityTypeComment, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, got[1], 1)
	assert.Len(t, got[2], 2)
	assert.Empty(t, got[3])

	empty, err := repo.FindByEntities(ctx, domain.EntityTypeComment, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAttachmentRepository_DeleteTwice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttachmentRepository(db)
	ctx := context.Background()

	ref := domain.EntityRef{Type: domain.EntityTypeTask, ID: 1}
	keep := newAttachment(ref, "keep.txt")
	drop := newAttachment(ref, "drop.txt")
	require.NoError(t, repo.Create(ctx, keep))
	require.NoError(t, repo.Create(ctx, drop))

	require.NoError(t, repo.Delete(ctx, drop.ID))
	err := repo.Delete(ctx, drop.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.FindByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestCommentRepository_FindByEntity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	ref := domain.EntityRef{Type: domain.EntityTypeTask, ID: 5}
	first := &domain.Comment{EntityType: ref.Type, EntityID: ref.ID, UserID: 1, Comment: "first"}
	second := &domain.Comment{EntityType: ref.Type, EntityID: ref.ID, UserID: 2, Comment: "second"}
	other := &domain.Comment{EntityType: ref.Type, EntityID: 6, UserID: 2, Comment: "other"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	got, err := repo.FindByEntity(ctx, ref)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Comment)
	assert.Equal(t, "second", got[1].Comment)
}
