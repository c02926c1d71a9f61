package domain

import "fmt"

// ProjectStatus represents the lifecycle of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusInactive  ProjectStatus = "inactive"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// IsValid reports whether s is a known project status
func (s ProjectStatus) IsValid() bool {
	return s == ProjectStatusActive || s == ProjectStatusInactive || s == ProjectStatusCompleted
}

// DurationType is the unit chosen when a project duration is entered
type DurationType string

const (
	DurationTypeDays   DurationType = "days"
	DurationTypeWeeks  DurationType = "weeks"
	DurationTypeMonths DurationType = "months"
)

// ToDays converts value units of t into days. Months count as 30 days.
func (t DurationType) ToDays(value int) (int, error) {
	if value <= 0 {
		return 0, fmt.Errorf("duration value must be positive")
	}
	switch t {
	case DurationTypeDays:
		return value, nil
	case DurationTypeWeeks:
		return value * 7, nil
	case DurationTypeMonths:
		return value * 30, nil
	}
	return 0, fmt.Errorf("invalid duration type: %s", t)
}

// Project groups tasks. Names are unique (case-sensitive).
type Project struct {
	BaseModel
	Name         string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_name" json:"name"`
	Description  string        `gorm:"type:text" json:"description"`
	Status       ProjectStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	DurationDays int           `gorm:"not null" json:"duration_days"`
	CreatedBy    uint          `gorm:"not null;index:idx_projects_created_by" json:"created_by"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
