package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
	FindByUser(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uint) (*domain.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepositoryImpl) FindByUser(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var notifications []*domain.Notification
	if err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkAsRead marks a notification owned by userID as read
func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, id, userID uint) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, err
	}
	if n.IsRead {
		return &n, nil
	}
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&n).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &now
	return &n, nil
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
