package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
)

// PerformanceHandler serves team and per-user performance reports
type PerformanceHandler struct {
	performanceService service.PerformanceService
}

// NewPerformanceHandler creates a new PerformanceHandler
func NewPerformanceHandler(performanceService service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performanceService: performanceService}
}

// GetTeamReport godoc
// @Summary      Team performance report
// @Description  Scores every active developer and QA user. Manager only.
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        window query string false "all, 30d or 7d" default(all)
// @Success      200 {object} response.SuccessResponse{data=dto.TeamPerformanceResponse} "Report"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /performance [get]
func (h *PerformanceHandler) GetTeamReport(c *gin.Context) {
	report, err := h.performanceService.GetTeamReport(c.Request.Context(), c.DefaultQuery("window", "all"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, report)
}

// GetUserPerformance godoc
// @Summary      User performance
// @Description  Managers may read anyone; other users only themselves.
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        window query string false "all, 30d or 7d" default(all)
// @Success      200 {object} response.SuccessResponse{data=dto.UserPerformanceResponse} "Evaluation"
// @Failure      400 {object} response.ErrorResponse "Validation failed"
// @Failure      401 {object} response.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} response.ErrorResponse "Role not allowed"
// @Failure      404 {object} response.ErrorResponse "User not found"
// @Failure      500 {object} response.ErrorResponse "Internal error"
// @Router       /performance/users/{id} [get]
func (h *PerformanceHandler) GetUserPerformance(c *gin.Context) {
	actor, ok := actor(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	if actor.Role != domain.RoleManager && actor.UserID != userID {
		handleServiceError(c, response.NewForbiddenError("You can only view your own performance", ""))
		return
	}

	result, err := h.performanceService.GetUserPerformance(c.Request.Context(), userID, c.DefaultQuery("window", "all"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
