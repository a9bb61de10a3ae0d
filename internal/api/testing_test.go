package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/device/backend"
)

// newTestQueue builds a device queue over a memory backend
func newTestQueue(t *testing.T) *device.Queue {
	t.Helper()

	be, err := backend.NewMemory(1 << 20)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	cfg := device.DefaultConfig()
	cfg.Name = "api0"
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

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	config := DefaultConfig()
	config.BindPort = 8080
	config.Queue = newTestQueue(t)
	return config
}

func newTestListener(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	return listener
}
