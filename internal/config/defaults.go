// Package config provides default values shared by anxietyd, anxietyctl and
// the internal packages so the daemon's flags and the CLI's expectations
// never drift apart.
package config

import "time"

const (
	// DefaultBindAddr is the API listen host. Loopback only: the tunables
	// endpoint changes scheduler behavior and has no authentication.
	DefaultBindAddr = "127.0.0.1"

	// DefaultAPIPort is the anxietyd HTTP API port.
	DefaultAPIPort = 7070

	// DefaultLogLevel is the default log level for all components
	DefaultLogLevel = "INFO"

	// DefaultBackend is the backend kind used when --backend is not given.
	DefaultBackend = "memory"

	// DefaultDeviceSize is the memory backend capacity (64 MiB).
	DefaultDeviceSize uint64 = 64 << 20

	// DefaultQueueDepth is how many requests the backend services at once.
	DefaultQueueDepth = 32

	// DefaultMaxPending caps queued plus in-flight requests before Submit
	// returns QueueFullError (the nr_requests analogue).
	DefaultMaxPending = 128

	// DefaultDispatchInterval is the dispatch loop's idle tick.
	DefaultDispatchInterval = 10 * time.Millisecond

	// DefaultRequestTimeout bounds how long an API drain or I/O request waits.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultShutdownTimeout bounds the drain and API shutdown on SIGTERM.
	DefaultShutdownTimeout = 10 * time.Second
)
