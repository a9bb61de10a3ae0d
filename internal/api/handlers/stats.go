package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/logging"
)

// DrainResponse reports a forced dispatch.
type DrainResponse struct {
	Device     string `json:"device"`
	Dispatched int    `json:"dispatched"`
	Duration   string `json:"duration"`
}

// GetStats handles GET /api/v1/iosched/stats.
func GetStats(queue DeviceQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, queue.Stats())
	}
}

// Drain handles POST /api/v1/iosched/drain. It dispatches everything
// queued, ignoring the batch limits, and waits for completion up to timeout.
func Drain(queue DeviceQueue, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		start := time.Now()
		n, err := queue.Drain(ctx)
		if err != nil {
			status := http.StatusGatewayTimeout
			if errors.Is(err, device.ErrQueueClosed) {
				status = http.StatusServiceUnavailable
			}
			logging.Warn("Drain of %s failed: %v", queue.Name(), err)
			c.JSON(status, ErrorResponse{
				Error:   "Drain did not complete",
				Details: err.Error(),
			})
			return
		}

		logging.Info("Drain of %s dispatched %d requests in %s", queue.Name(), n, time.Since(start))
		c.JSON(http.StatusOK, DrainResponse{
			Device:     queue.Name(),
			Dispatched: n,
			Duration:   time.Since(start).String(),
		})
	}
}

// Metrics handles GET /metrics with the queue's metrics followed by Go
// process metrics.
func Metrics(queue DeviceQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.Status(http.StatusOK)
		queue.WritePrometheus(c.Writer)
		vm.WriteProcessMetrics(c.Writer)
	}
}
