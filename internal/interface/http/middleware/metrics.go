package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/pkg/metrics"
)

// Metrics 记录HTTP请求数、耗时与并发数
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		c.Next()

		route := routeOf(c)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
