package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/metrics"
)

// Metrics records count and latency per route pattern. Health checks, the websocket
// stream and CORS preflights are not recorded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
