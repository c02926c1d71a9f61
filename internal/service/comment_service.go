package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	CreateComment(ctx context.Context, actor domain.Actor, taskID uint, req *dto.CreateCommentRequest, uploads []*storage.Upload) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, taskID uint) ([]*dto.CommentResponse, error)
}

type commentServiceImpl struct {
	wf          *Workflow
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(wf *Workflow, commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) CommentService {
	return &commentServiceImpl{wf: wf, commentRepo: commentRepo, taskRepo: taskRepo}
}

// CreateComment inserts the comment and binds its files to entity type comment
func (s *commentServiceImpl) CreateComment(ctx context.Context, actor domain.Actor, taskID uint, req *dto.CreateCommentRequest, uploads []*storage.Upload) (*dto.CommentResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, lookupError(err, "Task not found", "Failed to load task")
	}

	v := &validator{}
	text := strings.TrimSpace(req.Comment)
	v.check(text != "", "Comment is required")
	s.wf.validateUploads(v, uploads)
	if err := v.err(); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		EntityType: domain.EntityTypeTask,
		EntityID:   taskID,
		UserID:     actor.UserID,
		Comment:    text,
	}
	var (
		attachments []*domain.Attachment
		stored      []string
	)
	err := s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.commentRepo.WithTx(tx).Create(ctx, comment); err != nil {
			return err
		}
		var err error
		attachments, stored, err = s.wf.storeUploads(ctx, tx, domain.EntityRef{Type: domain.EntityTypeComment, ID: comment.ID}, actor, uploads)
		return err
	})
	if err != nil {
		s.wf.discardFiles(ctx, stored)
		s.wf.recordFailure(ctx, actor, domain.ActionCommentFailed, domain.EntityRef{Type: domain.EntityTypeComment}, err, map[string]interface{}{
			"task_id": taskID,
		})
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add comment", err.Error())
	}

	s.wf.recordActivity(ctx, actor, domain.ActionCommentAdded, domain.EntityRef{Type: domain.EntityTypeComment, ID: comment.ID}, map[string]interface{}{
		"task_id":          taskID,
		"attachment_count": len(attachments),
		"created_by":       actor.UserID,
		"ip_address":       actor.IPAddress,
	})
	if s.wf.Metrics != nil {
		s.wf.Metrics.IncrementCommentCreated()
	}
	s.wf.Logger.Debug("Comment added", zap.Uint("comment_id", comment.ID), zap.Uint("task_id", taskID))

	return toCommentResponse(comment, attachments), nil
}

// ListComments returns the comments of a task, oldest first
func (s *commentServiceImpl) ListComments(ctx context.Context, taskID uint) ([]*dto.CommentResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, lookupError(err, "Task not found", "Failed to load task")
	}
	comments, err := s.commentRepo.FindByEntity(ctx, domain.EntityRef{Type: domain.EntityTypeTask, ID: taskID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	attachments, err := s.wf.Attachments.FindByEntities(ctx, domain.EntityTypeComment, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load attachments", err.Error())
	}

	out := make([]*dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c, attachments[c.ID]))
	}
	return out, nil
}
