package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log actions
const (
	ActionCreate                = "create"
	ActionUpdate                = "update"
	ActionUpdateStatus          = "update_status"
	ActionTaskCreationFailed    = "task_creation_failed"
	ActionTaskUpdateFailed      = "task_update_failed"
	ActionTaskStatusFailed      = "task_status_update_failed"
	ActionBugCreated            = "bug_created"
	ActionBugUpdated            = "bug_updated"
	ActionBugStatusUpdated      = "bug_status_updated"
	ActionBugCreationFailed     = "bug_creation_failed"
	ActionBugUpdateFailed       = "bug_update_failed"
	ActionBugStatusFailed       = "bug_status_update_failed"
	ActionCommentAdded          = "comment_added"
	ActionCommentFailed         = "comment_failed"
	ActionDeleteAttachment      = "delete_attachment"
	ActionDeleteAttachmentError = "delete_attachment_error"
	ActionProjectCreationFailed = "project_creation_failed"
	ActionProjectUpdateFailed   = "project_update_failed"
)

// ActivityLog is an append-only audit entry
type ActivityLog struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint          `gorm:"index:idx_activity_logs_user_id" json:"user_id"`
	Action     string         `gorm:"type:varchar(100);not null;index:idx_activity_logs_action" json:"action"`
	EntityType EntityType     `gorm:"type:varchar(20);not null;index:idx_activity_logs_entity,priority:1" json:"entity_type"`
	EntityID   *uint          `gorm:"index:idx_activity_logs_entity,priority:2" json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt  time.Time      `gorm:"not null;index:idx_activity_logs_created_at" json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
