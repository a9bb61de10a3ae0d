// Package handlers provides the gin handlers behind anxietyd's HTTP API.
//
// ENDPOINTS:
//   - GET  /api/v1/health: liveness and version
//   - GET  /api/v1/host: host resource snapshot
//   - GET  /api/v1/iosched/tunables: every scheduler tunable
//   - GET  /api/v1/iosched/tunables/:name: one tunable as decimal text
//   - PUT  /api/v1/iosched/tunables/:name: store a tunable from text
//   - GET  /api/v1/iosched/stats: scheduler and device queue counters
//   - POST /api/v1/iosched/drain: forced dispatch of everything queued
//   - POST /api/v1/io: submit one request and wait for it
//   - GET  /metrics: Prometheus text exposition
//
// Handlers are factories taking a DeviceQueue so tests can drive them with
// a real queue over a memory backend.
package handlers

import (
	"context"
	"io"

	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/iosched"
)

// DeviceQueue is the part of *device.Queue the API needs.
type DeviceQueue interface {
	Name() string
	Tunables() map[string]string
	ShowTunable(name string) (string, error)
	StoreTunable(name, text string) error
	Stats() device.Stats
	Drain(ctx context.Context) (int, error)
	Submit(ctx context.Context, req *iosched.Request) (*device.Completion, error)
	WritePrometheus(w io.Writer)
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
