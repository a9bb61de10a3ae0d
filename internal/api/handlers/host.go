package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/resources"
)

// HandleHost returns a resource snapshot of the host running the daemon
func HandleHost(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, resources.Gather(startTime))
	}
}
