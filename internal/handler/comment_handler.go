package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

// CommentHandler handles task comment requests
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment godoc
// @Summary      Comment on a task
// @Tags         comments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Param        comment formData string true "Comment text"
// @Param        attachments formData file false "Files to attach"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse} "Comment created"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Task not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !bindInput(c, &req) {
		return
	}
	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), actor, taskID, &req, uploads)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      List task comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.CommentResponse} "Comments"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Task not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), taskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comments)
}
