package metrics

import (
	"strconv"
	"strings"
	"time"
)

// unlabelledPaths are health checks and long-lived streams that would only skew request metrics
var unlabelledPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
	"/ready":   {},
}

// RecordHTTPRequest records one finished request against its route pattern
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, categorizeStatus(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// categorizeStatus buckets a status code into its class, e.g. 404 into "4xx"
func categorizeStatus(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ShouldSkipEndpoint reports whether path is excluded from request metrics and request logs
func ShouldSkipEndpoint(path string) bool {
	if _, ok := unlabelledPaths[path]; ok {
		return true
	}
	return strings.HasSuffix(path, "/metrics") || strings.HasSuffix(path, "/notifications/ws")
}
