package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health states reported by HandleHealth
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded" // admission is rejecting: pending == max_pending
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Device    string    `json:"device"`
	Pending   int       `json:"pending"`
	InFlight  int       `json:"in_flight"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// HandleHealth reports the daemon as healthy unless the device queue is
// saturated. Both states answer 200 so load balancers keep routing tunable
// changes to a busy daemon.
func HandleHealth(queue DeviceQueue, version string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := queue.Stats()

		status := StatusHealthy
		if stats.MaxPending > 0 && stats.Pending >= stats.MaxPending {
			status = StatusDegraded
		}

		c.JSON(http.StatusOK, HealthResponse{
			Status:    status,
			Device:    queue.Name(),
			Pending:   stats.Pending,
			InFlight:  stats.InFlight,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
		})
	}
}
