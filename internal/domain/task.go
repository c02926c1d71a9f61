package domain

import "time"

// TaskStatus is a task lifecycle state. Any state may follow any other.
type TaskStatus string

const (
	TaskStatusTodo         TaskStatus = "todo"
	TaskStatusReopened     TaskStatus = "reopened"
	TaskStatusInProgress   TaskStatus = "in_progress"
	TaskStatusAwaitRelease TaskStatus = "await_release"
	TaskStatusInReview     TaskStatus = "in_review"
	TaskStatusClosed       TaskStatus = "closed"
)

// IsValid reports whether s is a known task status
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusReopened, TaskStatusInProgress,
		TaskStatusAwaitRelease, TaskStatusInReview, TaskStatusClosed:
		return true
	}
	return false
}

// Task is a unit of work inside a project
type Task struct {
	BaseModel
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	ProjectID     uint       `gorm:"not null;index:idx_tasks_project_id" json:"project_id"`
	Priority      Priority   `gorm:"type:varchar(20);not null" json:"priority"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'todo';index:idx_tasks_status" json:"status"`
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	CreatedBy     uint       `gorm:"not null;index:idx_tasks_created_by" json:"created_by"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TaskAssignment binds a user to a task. (task_id, user_id) is unique.
type TaskAssignment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_task_assignments_task_user,priority:1" json:"task_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_task_assignments_task_user,priority:2;index:idx_task_assignments_user_id" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for TaskAssignment
func (TaskAssignment) TableName() string {
	return "task_assignments"
}
