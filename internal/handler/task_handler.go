package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask godoc
// @Summary      Create a task
// @Description  Creates the task, its assignments and attachments in one transaction. Manager only.
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name formData string true "Task name"
// @Param        description formData string false "Rich text description"
// @Param        projectId formData int true "Project ID"
// @Param        priority formData string true "low, medium, high or critical"
// @Param        startDatetime formData string false "Start (RFC3339 or YYYY-MM-DDTHH:MM)"
// @Param        endDatetime formData string false "End, not before start"
// @Param        assignees formData []int false "Active developer or QA user IDs" collectionFormat(multi)
// @Param        attachments formData file false "Files to attach"
// @Success      201 {object} response.SuccessResponse{data=dto.TaskResponse} "Task created"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	var input dto.TaskInput
	if !bindInput(c, &input) {
		return
	}
	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, &input, uploads)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Replaces the editable fields and the assignment set and appends attachments. Status is left unchanged. Manager only.
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Param        name formData string true "Task name"
// @Param        description formData string false "Rich text description"
// @Param        projectId formData int true "Project ID"
// @Param        priority formData string true "low, medium, high or critical"
// @Param        startDatetime formData string false "Start (RFC3339 or YYYY-MM-DDTHH:MM)"
// @Param        endDatetime formData string false "End, not before start"
// @Param        assignees formData []int false "Active developer or QA user IDs" collectionFormat(multi)
// @Param        attachments formData file false "Files to attach"
// @Success      200 {object} response.SuccessResponse{data=dto.TaskResponse} "Task updated"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      404 {object} response.ErrorResponse "Task not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}
	var input dto.TaskInput
	if !bindInput(c, &input) {
		return
	}
	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, taskID, &input, uploads)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, task)
}

// UpdateTaskStatus godoc
// @Summary      Change task status
// @Description  Moves the task to any status and notifies its creator and assignees
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Param        request body dto.UpdateStatusRequest true "New status"
// @Success      200 {object} response.SuccessResponse{data=dto.StatusChangeResponse} "Status changed"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Task not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Status is required")
		return
	}

	result, err := h.taskService.UpdateTaskStatus(c.Request.Context(), actor, taskID, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// GetTask godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} response.SuccessResponse{data=dto.TaskResponse} "Task"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Task not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, task)
}

// ListProjectTasks godoc
// @Summary      List project tasks
// @Description  Tasks of the project, newest first, with assignees
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.TaskResponse} "Tasks"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Project not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /projects/{id}/tasks [get]
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, tasks)
}
