package repository

import (
	"context"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	WithTx(tx *gorm.DB) ProjectRepository
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id uint) (*domain.Project, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, project *domain.Project) error
	List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error)
}

type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

func (r *projectRepositoryImpl) WithTx(tx *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: tx}
}

func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsByName checks for an exact, case-sensitive name match, ignoring excludeID
func (r *projectRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Project{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepositoryImpl) List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error) {
	var projects []*domain.Project
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
