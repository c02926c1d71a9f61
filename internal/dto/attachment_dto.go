package dto

import "time"

// AttachmentResponse represents stored file metadata
type AttachmentResponse struct {
	ID           uint      `json:"attachmentId"`
	EntityType   string    `json:"entityType"`
	EntityID     uint      `json:"entityId"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	FileType     string    `json:"fileType"`
	UploadedBy   uint      `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
