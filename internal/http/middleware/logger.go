package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access line per request. Scrapes of /metrics are not logged.
// The raw query string is left out since filters may carry customer data.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/metrics" {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		log.Printf("[HTTP] request_id=%s method=%s route=%s status=%d latency_ms=%.3f ip=%s sub=%s role=%s",
			GetRequestID(c),
			c.Request.Method,
			route,
			c.Writer.Status(),
			float64(time.Since(start).Microseconds())/1000.0,
			c.ClientIP(),
			orDash(GetSubject(c)),
			orDash(GetRole(c)),
		)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
