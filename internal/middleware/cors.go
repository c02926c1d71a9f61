package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// originMatcher reports whether an Origin header value is allowed. "*" allows any origin.
func originMatcher(allowedOrigins []string) func(origin string) bool {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return func(origin string) bool {
		return allowAll || allowed[origin]
	}
}

// OriginAllowed adapts the CORS origin list to a websocket upgrader check.
// Requests without an Origin header are not from browsers and are accepted.
func OriginAllowed(allowedOrigins []string) func(r *http.Request) bool {
	match := originMatcher(allowedOrigins)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || match(origin)
	}
}

// CORS returns a middleware that echoes allowed origins
func CORS(allowedOrigins []string) gin.HandlerFunc {
	match := originMatcher(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && match(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
			c.Writer.Header().Set("Access-Control-Max-Age", "43200")
			c.Writer.Header().Add("Vary", "Origin")
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
