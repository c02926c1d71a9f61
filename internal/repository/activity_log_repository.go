package repository

import (
	"context"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// ActivityLogFilter narrows an activity log listing. Zero values match everything.
type ActivityLogFilter struct {
	EntityType domain.EntityType
	EntityID   uint
	UserID     uint
	Action     string
	Page       int
	Limit      int
}

// ActivityLogRepository is append-only: there is no update or delete
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]*domain.ActivityLog, int64, error)
}

type activityLogRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new instance of ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepositoryImpl{db: db}
}

func (r *activityLogRepositoryImpl) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepositoryImpl) List(ctx context.Context, filter ActivityLogFilter) ([]*domain.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ActivityLog{})
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var entries []*domain.ActivityLog
	if err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
