package dto

import "time"

// CreateCommentRequest is the multipart form of a new comment; files travel as "attachments"
type CreateCommentRequest struct {
	Comment string `form:"comment" json:"comment"`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	ID          uint                 `json:"commentId"`
	TaskID      uint                 `json:"taskId"`
	UserID      uint                 `json:"userId"`
	Comment     string               `json:"comment"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"createdAt"`
}
