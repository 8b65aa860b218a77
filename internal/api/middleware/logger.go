package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hana/reelmind/internal/logger"
)

// Logger returns a middleware that injects a request-scoped logger carrying
// a generated request id, and logs request completion with latency.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.New().String()
		reqLog := log.WithFields(logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: "api",
		})
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))
		c.Header("X-Request-ID", requestID)

		c.Next()

		reqLog.WithFields(logger.Fields{
			logger.FieldStatus:   c.Writer.Status(),
			logger.FieldDuration: time.Since(start).Milliseconds(),
		}).Infof("%s %s", c.Request.Method, path)
	}
}
