package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/logger"
)

// pollPaths are polled by orchestrators and not logged.
var pollPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// RequestLogger logs each request at a level chosen by status code.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pollPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if id := GetRequestID(c); id != "" {
			fields[ContextKeyRequestID] = id
		}

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}
