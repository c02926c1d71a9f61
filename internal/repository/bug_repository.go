package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// BugRepository defines the interface for bug data access
type BugRepository interface {
	WithTx(tx *gorm.DB) BugRepository
	Create(ctx context.Context, bug *domain.Bug) error
	FindByID(ctx context.Context, id uint) (*domain.Bug, error)
	FindByTaskID(ctx context.Context, taskID uint) ([]*domain.Bug, error)
	Update(ctx context.Context, bug *domain.Bug, withStatus bool) error
	UpdateStatus(ctx context.Context, id uint, status domain.BugStatus, at time.Time) error
}

type bugRepositoryImpl struct {
	db *gorm.DB
}

// NewBugRepository creates a new instance of BugRepository
func NewBugRepository(db *gorm.DB) BugRepository {
	return &bugRepositoryImpl{db: db}
}

func (r *bugRepositoryImpl) WithTx(tx *gorm.DB) BugRepository {
	return &bugRepositoryImpl{db: tx}
}

func (r *bugRepositoryImpl) Create(ctx context.Context, bug *domain.Bug) error {
	return r.db.WithContext(ctx).Create(bug).Error
}

func (r *bugRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Bug, error) {
	var bug domain.Bug
	if err := r.db.WithContext(ctx).First(&bug, id).Error; err != nil {
		return nil, err
	}
	return &bug, nil
}

func (r *bugRepositoryImpl) FindByTaskID(ctx context.Context, taskID uint) ([]*domain.Bug, error) {
	var bugs []*domain.Bug
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// Update writes the editable columns of bug. status is written only when
// withStatus is set, so an edit that did not ask for a status keeps the stored one.
func (r *bugRepositoryImpl) Update(ctx context.Context, bug *domain.Bug, withStatus bool) error {
	columns := []string{"name", "description", "task_id", "priority", "start_datetime", "end_datetime", "updated_at"}
	if withStatus {
		columns = append(columns, "status")
	}
	result := r.db.WithContext(ctx).Model(&domain.Bug{}).
		Where("id = ?", bug.ID).
		Select(columns).
		Updates(bug)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus writes the status and touches updated_at
func (r *bugRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status domain.BugStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Bug{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
