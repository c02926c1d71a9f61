package repository

import (
	"context"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// UserSummary is the public view of a user used in assignee lists
type UserSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*domain.User, error)
	FindByRoles(ctx context.Context, roles ...domain.Role) ([]*domain.User, error)
}

type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	var users []*domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByRoles returns active users having any of the given roles, ordered by name
func (r *userRepositoryImpl) FindByRoles(ctx context.Context, roles ...domain.Role) ([]*domain.User, error) {
	var users []*domain.User
	if err := r.db.WithContext(ctx).
		Where("role IN ? AND status = ?", roles, domain.UserStatusActive).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
