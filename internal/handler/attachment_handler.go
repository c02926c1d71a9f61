package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/service"
)

// AttachmentHandler handles attachment download and delete requests
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// DeleteAttachment godoc
// @Summary      Delete an attachment
// @Description  Removes the row and the stored file. The attachment must belong to the entity named in the path.
// @Tags         attachments
// @Security     BearerAuth
// @Param        id path int true "Task, bug or comment ID"
// @Param        attachmentId path int true "Attachment ID"
// @Success      204 "Deleted"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Attachment not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id}/attachments/{attachmentId} [delete]
// @Router       /bugs/{id}/attachments/{attachmentId} [delete]
// @Router       /comments/{id}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) DeleteAttachment(entityType domain.EntityType) gin.HandlerFunc {
	label := string(entityType)
	return func(c *gin.Context) {
		actor, ok := actor(c)
		if !ok {
			return
		}
		entityID, ok := parseID(c, "id", label)
		if !ok {
			return
		}
		attachmentID, ok := parseID(c, "attachmentId", "attachment")
		if !ok {
			return
		}

		owner := domain.EntityRef{Type: entityType, ID: entityID}
		if err := h.attachmentService.DeleteAttachment(c.Request.Context(), actor, attachmentID, owner); err != nil {
			handleServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadAttachment godoc
// @Summary      Download an attachment
// @Tags         attachments
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id path int true "Attachment ID"
// @Success      200 {file} file "File content"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Attachment not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /attachments/{id}/download [get]
func (h *AttachmentHandler) DownloadAttachment(c *gin.Context) {
	attachmentID, ok := parseID(c, "id", "attachment")
	if !ok {
		return
	}

	attachment, body, err := h.attachmentService.OpenAttachment(c.Request.Context(), attachmentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.OriginalName))
	c.Header("Content-Type", attachment.FileType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		zap.L().Warn("Attachment download interrupted",
			zap.Uint("attachment_id", attachment.ID),
			zap.Error(err),
		)
	}
}
