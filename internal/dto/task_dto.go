package dto

import "time"

// TaskInput carries the fields of a task create or update.
// Dates are parsed by the service so that every invalid field is reported together.
type TaskInput struct {
	Name          string `form:"name" json:"name"`
	Description   string `form:"description" json:"description"`
	ProjectID     uint   `form:"projectId" json:"projectId"`
	Priority      string `form:"priority" json:"priority"`
	StartDatetime string `form:"startDatetime" json:"startDatetime"`
	EndDatetime   string `form:"endDatetime" json:"endDatetime"`
	AssigneeIDs   []uint `form:"assignees" json:"assignees"`
}

// UpdateStatusRequest is shared by task and bug status changes
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssigneeResponse is the public view of an assigned user
type AssigneeResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// TaskResponse represents the task response
type TaskResponse struct {
	ID            uint                 `json:"taskId"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	ProjectID     uint                 `json:"projectId"`
	Priority      string               `json:"priority"`
	Status        string               `json:"status"`
	StartDatetime *time.Time           `json:"startDatetime,omitempty"`
	EndDatetime   *time.Time           `json:"endDatetime,omitempty"`
	CreatedBy     uint                 `json:"createdBy"`
	Assignees     []AssigneeResponse   `json:"assignees"`
	Attachments   []AttachmentResponse `json:"attachments"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// StatusChangeResponse is returned after a status transition
type StatusChangeResponse struct {
	ID        uint      `json:"id"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	UpdatedAt time.Time `json:"updatedAt"`
}
