package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/component"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

// Overall statuses reported by Health.
const (
	overallHealthy   = "healthy"
	overallStarting  = "starting"
	overallUnhealthy = "unhealthy"
)

// Health answers 503 as soon as one component is unhealthy. Components still
// waiting for Kafka or the schema registry keep the process alive with 200
// and an overall "starting".
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []component.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}

		overall := aggregate(components)
		code := http.StatusOK
		if overall == overallUnhealthy {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":     overall,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}

func aggregate(components []component.Health) string {
	overall := overallHealthy
	for _, h := range components {
		switch h.Status {
		case component.StatusUnhealthy:
			return overallUnhealthy
		case component.StatusPending:
			overall = overallStarting
		}
	}
	return overall
}
