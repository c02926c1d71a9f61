package dto

import (
	"encoding/json"
	"time"
)

// NotificationResponse represents one notification
type NotificationResponse struct {
	ID         uint            `json:"id"`
	Kind       string          `json:"kind"`
	EntityType string          `json:"entityType"`
	EntityID   uint            `json:"entityId"`
	Payload    json.RawMessage `json:"payload"`
	IsRead     bool            `json:"isRead"`
	ReadAt     *time.Time      `json:"readAt,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PaginatedNotificationsResponse is a page of notifications plus the unread total
type PaginatedNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	HasMore       bool                   `json:"hasMore"`
}
