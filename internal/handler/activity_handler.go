package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

// ActivityHandler exposes the audit trail to managers
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivityLogs godoc
// @Summary      List activity logs
// @Description  Audit trail, newest first. Manager only.
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        entityType query string false "task, bug, comment or project"
// @Param        entityId query int false "Entity ID"
// @Param        userId query int false "Acting user ID"
// @Param        action query string false "Action name"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedActivityLogsResponse} "Activity logs"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /activity-logs [get]
func (h *ActivityHandler) ListActivityLogs(c *gin.Context) {
	var query dto.ActivityLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	logs, err := h.activityService.ListActivityLogs(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, logs)
}
