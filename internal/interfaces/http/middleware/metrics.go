package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/prometheus"
)

// unmatchedRoute labels requests that hit no route, bounding label cardinality.
const unmatchedRoute = "unmatched"

// Metrics records request counts, latency, size and in-flight requests per
// route template.
func Metrics(m *prometheus.PipelineMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		active := m.HTTPActiveRequests.WithLabelValues(method, route)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		c.Next()

		size := c.Request.ContentLength
		if size < 0 {
			size = 0
		}
		prometheus.RecordHTTPRequest(m, method, route, c.Writer.Status(), time.Since(start), size)
	}
}

// BodyLimit caps request bodies at limit bytes. Readers past the limit fail
// with *http.MaxBytesError; a declared length over the limit is rejected
// before the handler runs.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"code":    "COMMON_002",
				"message": "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

//Personal.AI order the ending
