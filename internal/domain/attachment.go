package domain

import "time"

// EntityType names the kind of row an attachment, comment or audit entry refers to
type EntityType string

const (
	EntityTypeTask       EntityType = "task"
	EntityTypeBug        EntityType = "bug"
	EntityTypeComment    EntityType = "comment"
	EntityTypeProject    EntityType = "project"
	EntityTypeAttachment EntityType = "attachment"
)

// IsAttachable reports whether files may be bound to this entity type
func (t EntityType) IsAttachable() bool {
	return t == EntityTypeTask || t == EntityTypeBug || t == EntityTypeComment
}

// EntityRef identifies one row of a given entity type
type EntityRef struct {
	Type EntityType
	ID   uint
}

// Attachment is a stored file bound to a task, bug or comment.
// EntityID is polymorphic, so no foreign key is declared on it.
type Attachment struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType   EntityType `gorm:"type:varchar(20);not null;index:idx_attachments_entity,priority:1" json:"entity_type"`
	EntityID     uint       `gorm:"not null;index:idx_attachments_entity,priority:2" json:"entity_id"`
	FileName     string     `gorm:"type:varchar(255);not null" json:"file_name"`
	OriginalName string     `gorm:"type:varchar(255);not null" json:"original_name"`
	FilePath     string     `gorm:"type:text;not null" json:"file_path"`
	FileSize     int64      `gorm:"not null" json:"file_size"`
	FileType     string     `gorm:"type:varchar(100);not null" json:"file_type"`
	UploadedBy   uint       `gorm:"not null;index:idx_attachments_uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"not null" json:"uploaded_at"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}

// Ref returns the entity this attachment belongs to
func (a *Attachment) Ref() EntityRef {
	return EntityRef{Type: a.EntityType, ID: a.EntityID}
}
