package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

// BugHandler handles bug-related requests
type BugHandler struct {
	bugService service.BugService
}

// NewBugHandler creates a new BugHandler
func NewBugHandler(bugService service.BugService) *BugHandler {
	return &BugHandler{bugService: bugService}
}

// CreateBug godoc
// @Summary      Report a bug
// @Description  The task must belong to the submitted project. Status defaults to open. QA and managers only.
// @Tags         bugs
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name formData string true "Bug name"
// @Param        description formData string false "Rich text description"
// @Param        projectId formData int true "Project ID"
// @Param        taskId formData int true "Task ID inside the project"
// @Param        priority formData string true "low, medium, high or critical"
// @Param        status formData string false "open, in_progress, resolved or closed"
// @Param        startDatetime formData string false "Start (RFC3339 or YYYY-MM-DDTHH:MM)"
// @Param        endDatetime formData string false "End, not before start"
// @Param        attachments formData file false "Files to attach"
// @Success      201 {object} response.SuccessResponse{data=dto.BugResponse} "Bug created"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /bugs [post]
func (h *BugHandler) CreateBug(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	var input dto.BugInput
	if !bindInput(c, &input) {
		return
	}
	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	bug, err := h.bugService.CreateBug(c.Request.Context(), actor, &input, uploads)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, bug)
}

// UpdateBug godoc
// @Summary      Update a bug
// @Description  Status is written only when supplied. QA and managers only.
// @Tags         bugs
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Bug ID"
// @Param        name formData string true "Bug name"
// @Param        description formData string false "Rich text description"
// @Param        projectId formData int true "Project ID"
// @Param        taskId formData int true "Task ID inside the project"
// @Param        priority formData string true "low, medium, high or critical"
// @Param        status formData string false "open, in_progress, resolved or closed"
// @Param        startDatetime formData string false "Start (RFC3339 or YYYY-MM-DDTHH:MM)"
// @Param        endDatetime formData string false "End, not before start"
// @Param        attachments formData file false "Files to attach"
// @Success      200 {object} response.SuccessResponse{data=dto.BugResponse} "Bug updated"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      404 {object} response.ErrorResponse "Bug not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /bugs/{id} [put]
func (h *BugHandler) UpdateBug(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	bugID, ok := parseID(c, "id", "bug")
	if !ok {
		return
	}
	var input dto.BugInput
	if !bindInput(c, &input) {
		return
	}
	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	bug, err := h.bugService.UpdateBug(c.Request.Context(), actor, bugID, &input, uploads)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, bug)
}

// UpdateBugStatus godoc
// @Summary      Change bug status
// @Description  Notifies the parent task creator and assignees
// @Tags         bugs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Bug ID"
// @Param        request body dto.UpdateStatusRequest true "New status"
// @Success      200 {object} response.SuccessResponse{data=dto.StatusChangeResponse} "Status changed"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Bug not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /bugs/{id}/status [patch]
func (h *BugHandler) UpdateBugStatus(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	bugID, ok := parseID(c, "id", "bug")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Status is required")
		return
	}

	result, err := h.bugService.UpdateBugStatus(c.Request.Context(), actor, bugID, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// GetBug godoc
// @Summary      Get a bug
// @Tags         bugs
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Bug ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BugResponse} "Bug"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Bug not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /bugs/{id} [get]
func (h *BugHandler) GetBug(c *gin.Context) {
	bugID, ok := parseID(c, "id", "bug")
	if !ok {
		return
	}

	bug, err := h.bugService.GetBug(c.Request.Context(), bugID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, bug)
}

// ListTaskBugs godoc
// @Summary      List task bugs
// @Tags         bugs
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.BugResponse} "Bugs"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Task not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id}/bugs [get]
func (h *BugHandler) ListTaskBugs(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	bugs, err := h.bugService.ListBugs(c.Request.Context(), taskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, bugs)
}
