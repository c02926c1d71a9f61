package domain

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationKind is the lifecycle event a notification reports
type NotificationKind string

const (
	NotificationTaskAssignment   NotificationKind = "task_assignment"
	NotificationTaskUpdate       NotificationKind = "task_update"
	NotificationTaskStatusUpdate NotificationKind = "task_status_update"
	NotificationBugReport        NotificationKind = "bug_report"
	NotificationBugUpdate        NotificationKind = "bug_update"
	NotificationBugStatusUpdate  NotificationKind = "bug_status_update"
)

// Notification is a user-facing record of a lifecycle event
type Notification struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint             `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Kind       NotificationKind `gorm:"type:varchar(50);not null" json:"kind"`
	EntityType EntityType       `gorm:"type:varchar(20);not null" json:"entity_type"`
	EntityID   uint             `gorm:"not null" json:"entity_id"`
	Payload    datatypes.JSON   `json:"payload"`
	IsRead     bool             `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty"`
	CreatedAt  time.Time        `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
