package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"project-tracker-api/internal/domain"
)

func TestLogger_LevelsAndActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		SetActor(c, domain.Actor{UserID: 7, Role: domain.RoleQA})
		c.Next()
	})
	router.Use(Logger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ok", "/missing", "/fail", "/health"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3, "health checks are not logged")
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, uint64(7), fields["user_id"])
	assert.Equal(t, "qa", fields["role"])
	assert.Equal(t, "/ok", fields["path"])
}

func TestRecovery_LogsActorAndKeepsWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.Use(func(c *gin.Context) {
		SetActor(c, domain.Actor{UserID: 3, Role: domain.RoleDeveloper})
		c.Next()
	})
	router.GET("/late", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())

	require.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, uint64(3), fields["user_id"])
	assert.Equal(t, "/late", fields["route"])
}
