package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

// AttachmentService defines the interface for attachment operations outside entity workflows
type AttachmentService interface {
	DeleteAttachment(ctx context.Context, actor domain.Actor, attachmentID uint, owner domain.EntityRef) error
	OpenAttachment(ctx context.Context, attachmentID uint) (*domain.Attachment, io.ReadCloser, error)
}

type attachmentServiceImpl struct {
	wf *Workflow
}

// NewAttachmentService creates a new instance of AttachmentService
func NewAttachmentService(wf *Workflow) AttachmentService {
	return &attachmentServiceImpl{wf: wf}
}

// DeleteAttachment removes the stored file, then the row. An attachment that is gone
// or belongs to another entity is reported as NotFound. When the row delete fails after
// the file is gone, the inconsistency is logged and not retried.
func (s *attachmentServiceImpl) DeleteAttachment(ctx context.Context, actor domain.Actor, attachmentID uint, owner domain.EntityRef) error {
	attachment, err := s.wf.Attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return lookupError(err, "Attachment not found", "Failed to load attachment")
	}
	if attachment.Ref() != owner {
		return response.NewNotFoundError("Attachment not found", "")
	}

	ref := domain.EntityRef{Type: domain.EntityTypeAttachment, ID: attachment.ID}
	fields := map[string]interface{}{
		"file_name":   attachment.OriginalName,
		"entity_type": attachment.EntityType,
		"entity_id":   attachment.EntityID,
	}

	if err := s.wf.Store.Delete(ctx, attachment.FilePath); err != nil {
		s.wf.recordFailure(ctx, actor, domain.ActionDeleteAttachmentError, ref, err, fields)
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete attachment", err.Error())
	}

	if err := s.wf.Attachments.Delete(ctx, attachment.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deleted concurrently
			return response.NewNotFoundError("Attachment not found", "")
		}
		s.wf.Logger.Error("Attachment file removed but row delete failed",
			zap.Uint("attachment_id", attachment.ID),
			zap.String("file_path", attachment.FilePath),
			zap.Error(err),
		)
		s.wf.recordFailure(ctx, actor, domain.ActionDeleteAttachmentError, ref, err, fields)
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete attachment", err.Error())
	}

	s.wf.recordActivity(ctx, actor, domain.ActionDeleteAttachment, ref, map[string]interface{}{
		"file_name":   attachment.OriginalName,
		"file_size":   attachment.FileSize,
		"entity_type": attachment.EntityType,
		"entity_id":   attachment.EntityID,
		"deleted_by":  actor.UserID,
	})
	return nil
}

// OpenAttachment returns the attachment row and a reader over its bytes. The caller closes the reader.
func (s *attachmentServiceImpl) OpenAttachment(ctx context.Context, attachmentID uint) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.wf.Attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, lookupError(err, "Attachment not found", "Failed to load attachment")
	}
	body, err := s.wf.Store.Open(ctx, attachment.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileUnavailable) {
			return nil, nil, response.NewNotFoundError("Attachment file not found", "")
		}
		return nil, nil, response.NewAppError(response.ErrCodeInternal, "Failed to open attachment", err.Error())
	}
	return attachment, body, nil
}
