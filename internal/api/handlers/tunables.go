package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/iosched"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/validate"
)

// TunableResponse describes one tunable and its current value.
type TunableResponse struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Default     uint8  `json:"default"`
}

// TunablesResponse lists every tunable of a device.
type TunablesResponse struct {
	Device   string            `json:"device"`
	Tunables []TunableResponse `json:"tunables"`
}

// SetTunableRequest is the PUT body. Value is parsed exactly like a write
// to the attribute: decimal, with at most one trailing newline.
type SetTunableRequest struct {
	Value string `json:"value"`
}

// ListTunables handles GET /api/v1/iosched/tunables.
func ListTunables(queue DeviceQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		values := queue.Tunables()

		response := TunablesResponse{Device: queue.Name()}
		for _, attr := range iosched.Attributes() {
			response.Tunables = append(response.Tunables, TunableResponse{
				Name:        attr.Name,
				Value:       values[attr.Name],
				Description: attr.Description,
				Default:     attr.Default,
			})
		}

		c.JSON(http.StatusOK, response)
	}
}

// GetTunable handles GET /api/v1/iosched/tunables/:name.
func GetTunable(queue DeviceQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if !checkTunableName(c, name) {
			return
		}

		value, err := queue.ShowTunable(name)
		if err != nil {
			tunableError(c, name, err)
			return
		}

		c.JSON(http.StatusOK, TunableResponse{Name: name, Value: value, Default: defaultFor(name)})
	}
}

// SetTunable handles PUT /api/v1/iosched/tunables/:name.
func SetTunable(queue DeviceQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if !checkTunableName(c, name) {
			return
		}

		var req SetTunableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logging.Warn("Tunable update: Invalid request body: %v", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Details: err.Error(),
			})
			return
		}

		if err := queue.StoreTunable(name, req.Value); err != nil {
			tunableError(c, name, err)
			return
		}

		// Report the stored value, which may differ from the input (clamping).
		value, err := queue.ShowTunable(name)
		if err != nil {
			tunableError(c, name, err)
			return
		}
		c.JSON(http.StatusOK, TunableResponse{Name: name, Value: value, Default: defaultFor(name)})
	}
}

func checkTunableName(c *gin.Context, name string) bool {
	if err := validate.TunableName(name); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid tunable name",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func tunableError(c *gin.Context, name string, err error) {
	var parseErr *iosched.ConfigParseError
	switch {
	case errors.Is(err, iosched.ErrUnknownTunable):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Tunable not found",
			Details: name,
		})
	case errors.As(err, &parseErr):
		logging.Warn("Tunable update: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid tunable value",
			Details: err.Error(),
		})
	default:
		logging.Error("Tunable %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to access tunable",
			Details: err.Error(),
		})
	}
}

func defaultFor(name string) uint8 {
	for _, attr := range iosched.Attributes() {
		if attr.Name == name {
			return attr.Default
		}
	}
	return 0
}
