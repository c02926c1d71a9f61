package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const serviceName = "project-tracker-api"

// HealthHandler reports liveness and dependency readiness
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewHealthHandler creates a new HealthHandler. redisClient may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

// Health godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string "Alive"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Ready godoc
// @Summary      Readiness
// @Description  Checks the database, and Redis when configured
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string "Ready"
// @Failure      503 {object} map[string]string "Dependency down"
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		notReady(c, "database not connected")
		return
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		notReady(c, "database connection failed")
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		notReady(c, "database ping failed")
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(c.Request.Context()).Err(); err != nil {
			notReady(c, "redis connection failed")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

func notReady(c *gin.Context, reason string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status": "not ready",
		"error":  reason,
	})
}
