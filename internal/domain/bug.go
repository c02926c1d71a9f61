package domain

import "time"

// BugStatus is a bug lifecycle state. Any state may follow any other.
type BugStatus string

const (
	BugStatusOpen       BugStatus = "open"
	BugStatusInProgress BugStatus = "in_progress"
	BugStatusResolved   BugStatus = "resolved"
	BugStatusClosed     BugStatus = "closed"
)

// IsValid reports whether s is a known bug status
func (s BugStatus) IsValid() bool {
	switch s {
	case BugStatusOpen, BugStatusInProgress, BugStatusResolved, BugStatusClosed:
		return true
	}
	return false
}

// Bug is a defect reported against exactly one task
type Bug struct {
	BaseModel
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	TaskID        uint       `gorm:"not null;index:idx_bugs_task_id" json:"task_id"`
	Priority      Priority   `gorm:"type:varchar(20);not null" json:"priority"`
	Status        BugStatus  `gorm:"type:varchar(20);not null;default:'open';index:idx_bugs_status" json:"status"`
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	CreatedBy     uint       `gorm:"not null;index:idx_bugs_created_by" json:"created_by"`
}

// TableName specifies the table name for Bug
func (Bug) TableName() string {
	return "bugs"
}
