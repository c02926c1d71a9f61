package dto

import (
	"encoding/json"
	"time"
)

// ActivityLogQuery filters the activity log listing
type ActivityLogQuery struct {
	EntityType string `form:"entityType"`
	EntityID   uint   `form:"entityId"`
	UserID     uint   `form:"userId"`
	Action     string `form:"action"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ActivityLogResponse represents one audit entry
type ActivityLogResponse struct {
	ID         uint            `json:"id"`
	UserID     *uint           `json:"userId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   *uint           `json:"entityId"`
	Details    json.RawMessage `json:"details"`
	IPAddress  string          `json:"ipAddress,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PaginatedActivityLogsResponse is a page of audit entries
type PaginatedActivityLogsResponse struct {
	Logs  []ActivityLogResponse `json:"logs"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
