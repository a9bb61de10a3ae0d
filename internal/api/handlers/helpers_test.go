package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/device/backend"
)

const testDeviceSize = 1 << 20

// newTestQueue builds a device queue over a memory backend and closes it
// when the test ends.
func newTestQueue(t *testing.T) *device.Queue {
	t.Helper()

	be, err := backend.NewMemory(testDeviceSize)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}

	cfg := device.DefaultConfig()
	cfg.Name = "test0"
	cfg.DispatchInterval = time.Millisecond

	q, err := device.New(cfg, be)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		q.Close(ctx)
	})
	return q
}

func newTestRouter(q DeviceQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/tunables", ListTunables(q))
	router.GET("/tunables/:name", GetTunable(q))
	router.PUT("/tunables/:name", SetTunable(q))
	router.GET("/stats", GetStats(q))
	router.POST("/drain", Drain(q, 5*time.Second))
	router.POST("/io", SubmitIO(q, 5*time.Second))
	router.GET("/metrics", Metrics(q))
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
}
