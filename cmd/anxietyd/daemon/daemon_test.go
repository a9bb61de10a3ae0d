package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/concave-dev/anxiety/cmd/anxietyd/config"
	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/device/backend"
	"github.com/concave-dev/anxiety/internal/iosched"
)

func setGlobal(t *testing.T) {
	t.Helper()
	saved := config.Global
	t.Cleanup(func() { config.Global = saved })

	config.Global = config.Config{
		APIAddr:          "127.0.0.1",
		APIPort:          7070,
		DeviceName:       "daemon-test",
		Backend:          backend.KindMemory,
		Size:             1 << 20,
		QueueDepth:       4,
		MaxPending:       16,
		DispatchInterval: time.Millisecond,
		SyncRatio:        2,
		BatchCount:       3,
		ShutdownTimeout:  5 * time.Second,
		RequestTimeout:   time.Second,
	}
}

func TestBuildDeviceConfig(t *testing.T) {
	setGlobal(t)

	cfg := buildDeviceConfig()
	if cfg.Name != "daemon-test" {
		t.Errorf("Name = %q, want \"daemon-test\"", cfg.Name)
	}
	if cfg.QueueDepth != 4 || cfg.MaxPending != 16 {
		t.Errorf("depth/pending = %d/%d, want 4/16", cfg.QueueDepth, cfg.MaxPending)
	}
	if cfg.SyncRatio != 2 || cfg.BatchCount != 3 {
		t.Errorf("tunables = %d/%d, want 2/3", cfg.SyncRatio, cfg.BatchCount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestBuildAPIConfig(t *testing.T) {
	setGlobal(t)

	queue := newQueue(t)
	cfg := buildAPIConfig(queue)
	if cfg.BindAddr != "127.0.0.1" || cfg.BindPort != 7070 {
		t.Errorf("bind = %s:%d, want 127.0.0.1:7070", cfg.BindAddr, cfg.BindPort)
	}
	if cfg.RequestTimeout != time.Second {
		t.Errorf("RequestTimeout = %v, want 1s", cfg.RequestTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestShutdown_ClosesQueueAndBackend(t *testing.T) {
	setGlobal(t)

	be, err := backend.NewMemory(1 << 20)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	queue, err := device.New(buildDeviceConfig(), be)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}

	req := &iosched.Request{Op: iosched.OpWrite, Length: 4, Data: []byte("data")}
	if err := queue.Do(context.Background(), req); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if err := shutdown(nil, queue, be); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}

	if _, err := queue.Submit(context.Background(), &iosched.Request{Op: iosched.OpFlush}); !errors.Is(err, device.ErrQueueClosed) {
		t.Errorf("Submit() after shutdown error = %v, want ErrQueueClosed", err)
	}
	if err := be.Handle(context.Background(), &iosched.Request{Op: iosched.OpFlush}); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("backend Handle() after shutdown error = %v, want ErrClosed", err)
	}
}

func newQueue(t *testing.T) *device.Queue {
	t.Helper()
	be, err := backend.NewMemory(1 << 20)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	queue, err := device.New(buildDeviceConfig(), be)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	t.Cleanup(func() { queue.Close(context.Background()) })
	return queue
}
