package dto

import "time"

// BugInput carries the fields of a bug create or update.
// ProjectID is checked against the parent task's project.
type BugInput struct {
	Name          string `form:"name" json:"name"`
	Description   string `form:"description" json:"description"`
	ProjectID     uint   `form:"projectId" json:"projectId"`
	TaskID        uint   `form:"taskId" json:"taskId"`
	Priority      string `form:"priority" json:"priority"`
	Status        string `form:"status" json:"status"`
	StartDatetime string `form:"startDatetime" json:"startDatetime"`
	EndDatetime   string `form:"endDatetime" json:"endDatetime"`
}

// BugResponse represents the bug response
type BugResponse struct {
	ID            uint                 `json:"bugId"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	TaskID        uint                 `json:"taskId"`
	ProjectID     uint                 `json:"projectId"`
	Priority      string               `json:"priority"`
	Status        string               `json:"status"`
	StartDatetime *time.Time           `json:"startDatetime,omitempty"`
	EndDatetime   *time.Time           `json:"endDatetime,omitempty"`
	CreatedBy     uint                 `json:"createdBy"`
	Attachments   []AttachmentResponse `json:"attachments"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}
