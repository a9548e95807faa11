package httpapi

import (
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestID reuses the caller's X-Request-Id or mints one, echoes it back
// and puts it on the request context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		args := []any{"method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "elapsed", time.Since(start)}
		if c.Writer.Status() >= 500 {
			l.Warn(ctx, "request", args...)
			return
		}
		l.Debug(ctx, "request", args...)
	}
}
