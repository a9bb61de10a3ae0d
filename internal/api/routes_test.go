package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestSetupRoutes tests that routes are properly registered by checking the route tree
func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server, err := NewServer(newTestConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	router := gin.New()

	// Setup routes
	server.setupRoutes(router)

	// Get the registered routes from Gin's route tree
	routes := router.Routes()

	// Expected routes
	expectedRoutes := map[string]string{
		"GET /api/v1/health":                 "health endpoint",
		"GET /api/v1/host":                   "host endpoint",
		"GET /api/v1/iosched/tunables":       "tunables endpoint",
		"GET /api/v1/iosched/tunables/:name": "tunable get endpoint",
		"PUT /api/v1/iosched/tunables/:name": "tunable set endpoint",
		"GET /api/v1/iosched/stats":          "stats endpoint",
		"POST /api/v1/iosched/drain":         "drain endpoint",
		"POST /api/v1/io":                    "io endpoint",
		"GET /metrics":                       "metrics endpoint",
	}

	// Check that all expected routes are registered
	registeredRoutes := make(map[string]bool)
	for _, route := range routes {
		key := route.Method + " " + route.Path
		registeredRoutes[key] = true
	}

	for expectedRoute, description := range expectedRoutes {
		t.Run(description, func(t *testing.T) {
			if !registeredRoutes[expectedRoute] {
				t.Errorf("Route %s not registered", expectedRoute)
			}
		})
	}

	if len(routes) != len(expectedRoutes) {
		t.Errorf("Expected %d routes, got %d", len(expectedRoutes), len(routes))
	}
}

// TestSetupRoutes_APIPrefix tests that API routes are only served under /api/v1
func TestSetupRoutes_APIPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server, err := NewServer(newTestConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	router := gin.New()
	server.setupRoutes(router)

	unprefixedRoutes := []string{
		"/health",
		"/iosched/tunables",
		"/iosched/stats",
	}

	for _, path := range unprefixedRoutes {
		t.Run("no_prefix_"+path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			// These should return 404 since they don't have the /api/v1 prefix
			if w.Code != 404 {
				t.Errorf("Route %s should not exist without /api/v1 prefix, got status %d", path, w.Code)
			}
		})
	}
}
