package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject godoc
// @Summary      Create a project
// @Description  Names are unique. Manager only.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProjectRequest true "Project"
// @Success      201 {object} response.SuccessResponse{data=dto.ProjectResponse} "Project created"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      409 {object} response.ErrorResponse "Name already taken"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, project)
}

// UpdateProject godoc
// @Summary      Update a project
// @Description  Manager only
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Param        request body dto.UpdateProjectRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse} "Project updated"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      404 {object} response.ErrorResponse "Project not found"
// @Failure      409 {object} response.ErrorResponse "Name already taken"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), actor, projectID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, project)
}

// GetProject godoc
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse} "Project"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} response.ErrorResponse "Project not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, project)
}

// ListProjects godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ProjectResponse} "Projects"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, projects)
}
