package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-tracker-api/internal/response"
)

// Recovery turns a handler panic into a 500 error envelope. When the handler
// already started writing, only the log line is emitted.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.String("panic_type", fmt.Sprintf("%T", rec)),
				zap.Any("panic", rec),
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stacktrace"),
			}
			if actor, ok := ActorFrom(c); ok {
				fields = append(fields, zap.Uint("user_id", actor.UserID))
			}
			logger.Error("Panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
			c.Abort()
		}()

		c.Next()
	}
}
