package service

import (
	"context"
	"encoding/json"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
)

// NotificationService reads and acknowledges the caller's notifications
type NotificationService interface {
	ListNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*dto.PaginatedNotificationsResponse, error)
	MarkAsRead(ctx context.Context, userID, notificationID uint) (*dto.NotificationResponse, error)
}

type notificationServiceImpl struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationServiceImpl{repo: repo}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*dto.PaginatedNotificationsResponse, error) {
	rows, total, err := s.repo.FindByUser(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load notifications", err.Error())
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count notifications", err.Error())
	}

	page, limit = pageBounds(page, limit)
	out := make([]dto.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, toNotificationResponse(n))
	}
	return &dto.PaginatedNotificationsResponse{
		Notifications: out,
		Total:         total,
		Unread:        unread,
		Page:          page,
		Limit:         limit,
		HasMore:       int64(page*limit) < total,
	}, nil
}

// MarkAsRead acknowledges one notification. Notifications of other users are reported as not found.
func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID, notificationID uint) (*dto.NotificationResponse, error) {
	n, err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		return nil, lookupError(err, "Notification not found", "Failed to update notification")
	}
	resp := toNotificationResponse(n)
	return &resp, nil
}

func toNotificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:         n.ID,
		Kind:       string(n.Kind),
		EntityType: string(n.EntityType),
		EntityID:   n.EntityID,
		Payload:    json.RawMessage(n.Payload),
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
