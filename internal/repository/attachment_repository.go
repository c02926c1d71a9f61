package repository

import (
	"context"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	WithTx(tx *gorm.DB) AttachmentRepository
	Create(ctx context.Context, attachment *domain.Attachment) error
	FindByID(ctx context.Context, id uint) (*domain.Attachment, error)
	FindByEntity(ctx context.Context, ref domain.EntityRef) ([]*domain.Attachment, error)
	FindByEntities(ctx context.Context, entityType domain.EntityType, ids []uint) (map[uint][]*domain.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

func (r *attachmentRepositoryImpl) WithTx(tx *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: tx}
}

// Create creates a new attachment
func (r *attachmentRepositoryImpl) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindByID finds an attachment by its ID
func (r *attachmentRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Attachment, error) {
	var attachment domain.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// FindByEntity finds all attachments bound to one entity
func (r *attachmentRepositoryImpl) FindByEntity(ctx context.Context, ref domain.EntityRef) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).
		Order("uploaded_at ASC, id ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindByEntities loads attachments of many entities of one type, keyed by entity id
func (r *attachmentRepositoryImpl) FindByEntities(ctx context.Context, entityType domain.EntityType, ids []uint) (map[uint][]*domain.Attachment, error) {
	result := make(map[uint][]*domain.Attachment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id IN ?", entityType, ids).
		Order("uploaded_at ASC, id ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	for _, a := range attachments {
		result[a.EntityID] = append(result[a.EntityID], a)
	}
	return result, nil
}

// Delete removes an attachment row. A missing row yields gorm.ErrRecordNotFound.
func (r *attachmentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Attachment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
