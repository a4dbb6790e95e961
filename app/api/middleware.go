package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString("request_id"),
		}
		if fields["path"] == "" {
			fields["path"] = c.Request.URL.Path
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error(fmt.Errorf("%s %s returned %d", c.Request.Method, c.Request.URL.Path, status), fields)
		case status >= http.StatusBadRequest:
			log.Warn("request failed", fields)
		default:
			log.Info("request completed", fields)
		}
	}
}

// Recovery turns panics into a logged 500 with the standard error envelope.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(fmt.Errorf("panic: %v", r), logger.Fields{
					"path":       c.Request.URL.Path,
					"request_id": c.GetString("request_id"),
				})
				InternalErrorResponse(c, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
