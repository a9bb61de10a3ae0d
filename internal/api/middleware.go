package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/utils"
)

// RequestIDHeader carries the per-request correlation ID. A client-supplied
// value is kept; otherwise one is generated.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request ID
const requestIDKey = "request_id"

// quietPaths are polled by monitoring and anxietyctl --watch; successful
// requests to them are logged at debug level only.
var quietPaths = map[string]bool{
	"/metrics":              true,
	"/api/v1/health":        true,
	"/api/v1/iosched/stats": true,
}

// requestIDMiddleware assigns every request an ID and echoes it back
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			generated, err := utils.GenerateID()
			if err != nil {
				logging.Warn("Failed to generate request ID: %v", err)
			}
			id = generated
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs each request once it has been served. Client
// errors log as warnings and server errors as errors.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		id := logging.FormatRequestID(c.GetString(requestIDKey))
		latency := time.Since(start)

		switch {
		case status >= http.StatusInternalServerError:
			logging.Error("[%s] %s %s %d %v %s", id, c.Request.Method, path, status, latency, c.Errors.String())
		case status >= http.StatusBadRequest:
			logging.Warn("[%s] %s %s %d %v", id, c.Request.Method, path, status, latency)
		case quietPaths[path]:
			logging.Debug("[%s] %s %s %d %v", id, c.Request.Method, path, status, latency)
		default:
			logging.Info("[%s] %s %s %d %v (%s)", id, c.Request.Method, path, status, latency, c.ClientIP())
		}
	}
}

// corsMiddleware provides CORS headers for browser-based dashboards
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)
		c.Header("Access-Control-Max-Age", "300")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
