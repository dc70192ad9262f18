package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const recordTimeout = 5 * time.Second

// Middleware records request count, latency and errors per route. Data points
// are sent off the request path.
func Middleware(rec Recorder, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := rec.(Noop); ok || rec == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dims := map[string]string{
			"Service": service,
			"Method":  c.Request.Method,
			"Path":    path,
		}
		status := c.Writer.Status()
		dur := time.Since(start)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			_ = rec.RecordCount(ctx, HTTPRequests, dims)
			_ = rec.RecordLatency(ctx, HTTPLatency, dur, dims)
			if status >= 400 {
				errDims := map[string]string{"Service": service, "Status": strconv.Itoa(status)}
				_ = rec.RecordCount(ctx, HTTPErrors, errDims)
			}
		}()
	}
}
