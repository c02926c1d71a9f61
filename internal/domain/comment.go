package domain

import "time"

// Comment is a note posted on a task
type Comment struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType EntityType `gorm:"type:varchar(20);not null;index:idx_comments_entity,priority:1" json:"entity_type"`
	EntityID   uint       `gorm:"not null;index:idx_comments_entity,priority:2" json:"entity_id"`
	UserID     uint       `gorm:"not null;index:idx_comments_user_id" json:"user_id"`
	Comment    string     `gorm:"type:text;not null" json:"comment"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	// Attachments are loaded separately by entity reference
	Attachments []Attachment `gorm:"-" json:"attachments,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
