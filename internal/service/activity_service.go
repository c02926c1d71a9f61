package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
)

// ActivityLogger appends audit entries. A zero ref.ID is stored as a null entity id
// and a zero actor user id as a system action.
type ActivityLogger interface {
	Log(ctx context.Context, actor domain.Actor, action string, ref domain.EntityRef, details map[string]interface{}) error
}

// ActivityService reads the audit trail
type ActivityService interface {
	ListActivityLogs(ctx context.Context, query *dto.ActivityLogQuery) (*dto.PaginatedActivityLogsResponse, error)
}

type activityServiceImpl struct {
	repo repository.ActivityLogRepository
}

// NewActivityLogger creates an ActivityLogger backed by repo
func NewActivityLogger(repo repository.ActivityLogRepository) ActivityLogger {
	return &activityServiceImpl{repo: repo}
}

// NewActivityService creates a new instance of ActivityService
func NewActivityService(repo repository.ActivityLogRepository) ActivityService {
	return &activityServiceImpl{repo: repo}
}

func (s *activityServiceImpl) Log(ctx context.Context, actor domain.Actor, action string, ref domain.EntityRef, details map[string]interface{}) error {
	body, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}

	entry := &domain.ActivityLog{
		Action:     action,
		EntityType: ref.Type,
		Details:    datatypes.JSON(body),
		IPAddress:  actor.IPAddress,
	}
	if actor.UserID != 0 {
		uid := actor.UserID
		entry.UserID = &uid
	}
	if ref.ID != 0 {
		eid := ref.ID
		entry.EntityID = &eid
	}
	return s.repo.Create(ctx, entry)
}

func (s *activityServiceImpl) ListActivityLogs(ctx context.Context, query *dto.ActivityLogQuery) (*dto.PaginatedActivityLogsResponse, error) {
	filter := repository.ActivityLogFilter{
		EntityType: domain.EntityType(strings.ToLower(query.EntityType)),
		EntityID:   query.EntityID,
		UserID:     query.UserID,
		Action:     query.Action,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	switch filter.EntityType {
	case "", domain.EntityTypeTask, domain.EntityTypeBug, domain.EntityTypeComment,
		domain.EntityTypeProject, domain.EntityTypeAttachment:
	default:
		return nil, response.NewValidationError("Invalid entity type", query.EntityType)
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load activity logs", err.Error())
	}

	page, limit := pageBounds(query.Page, query.Limit)
	logs := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, dto.ActivityLogResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Action:     e.Action,
			EntityType: string(e.EntityType),
			EntityID:   e.EntityID,
			Details:    json.RawMessage(e.Details),
			IPAddress:  e.IPAddress,
			CreatedAt:  e.CreatedAt,
		})
	}
	return &dto.PaginatedActivityLogsResponse{Logs: logs, Total: total, Page: page, Limit: limit}, nil
}

// pageBounds mirrors the repository defaults so responses echo the page actually served
func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
