package dto

import "time"

// CreateProjectRequest represents the request to create a new project.
// durationType is one of days, weeks or months.
type CreateProjectRequest struct {
	Name          string `json:"name" example:"Apollo"`
	Description   string `json:"description"`
	DurationType  string `json:"durationType" example:"weeks"`
	DurationValue int    `json:"durationValue" example:"6"`
}

// UpdateProjectRequest represents the request to update a project. All fields are optional;
// durationType and durationValue must be sent together.
type UpdateProjectRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Status        *string `json:"status" example:"completed"`
	DurationType  *string `json:"durationType"`
	DurationValue *int    `json:"durationValue"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ID           uint      `json:"projectId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	DurationDays int       `json:"durationDays"`
	CreatedBy    uint      `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
