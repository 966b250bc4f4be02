package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
)

// Recovery turns a handler panic into a 500 carrying the standard error
// envelope. The panic value and stack are logged, never returned.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			appErr := errors.Internal(fmt.Errorf("panic: %v", rec))
			log.Error("Panic recovered", logger.Fields(
				logger.FieldError, appErr.Cause.Error(),
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				ContextKeyRequestID, GetRequestID(c),
			))
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		}()
		c.Next()
	}
}
