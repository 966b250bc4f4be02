package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/version"
)

// ServiceInfo identifies the running service.
type ServiceInfo struct {
	Name        string
	Environment string
}

// Info reports the service identity, build and uptime since started.
func Info(info ServiceInfo, started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     info.Name,
			"environment": info.Environment,
			"build":       version.Get(),
			"uptime":      time.Since(started).Round(time.Second).String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
