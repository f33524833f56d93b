package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/media/src/metrics"
)

// Instrument records the duration of every request, labelled with the
// route template rather than the raw path.
func Instrument(m metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
