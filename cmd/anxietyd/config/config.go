// Package config provides configuration management for the anxiety daemon.
//
// Flags are bound straight into the package-global Global. The daemon then
// runs InitializeConfig (environment overrides) and ValidateConfig
// (parsing and normalization) before anything is built.
//
// EXPLICIT OVERRIDE TRACKING:
// Some behavior depends on whether the user set a value or took the
// default:
//
//   - API address: the default port falls back to the next free port, an
//     explicit one must bind exactly
//   - Scheduler tunables: ANXIETY_SYNC_RATIO and ANXIETY_BATCH_COUNT only
//     apply when the matching flag was not given
//   - Log file: logging is redirected only when --log-file was given
package config

import (
	"time"

	configDefaults "github.com/concave-dev/anxiety/internal/config"
	"github.com/concave-dev/anxiety/internal/iosched"
)

// ConfigField represents a configuration field that can be explicitly set
type ConfigField int

const (
	// Configuration field identifiers
	APIAddrField ConfigField = iota
	SyncRatioField
	BatchCountField
	LogFileField
)

const (
	DefaultAPI        = configDefaults.DefaultBindAddr + ":7070" // Default API address
	DefaultLogLevel   = configDefaults.DefaultLogLevel           // Default log level
	DefaultBackend    = configDefaults.DefaultBackend            // Default backend kind
	DefaultSize       = "64MiB"                                  // Default device size
	DefaultSyncRatio  = iosched.DefaultSyncRatio
	DefaultBatchCount = iosched.DefaultBatchCount
)

// Environment variables read by InitializeConfig
const (
	EnvDebug      = "DEBUG"
	EnvSyncRatio  = "ANXIETY_SYNC_RATIO"
	EnvBatchCount = "ANXIETY_BATCH_COUNT"
)

// Config holds all daemon configuration values
type Config struct {
	APIAddr string // HTTP API server address, "host:port" until validated
	APIPort int    // HTTP API server port (derived from APIAddr)

	DeviceName  string // Device name (defaults to a generated name)
	Backend     string // Backend kind: memory or file
	BackendPath string // Backing file for the file backend
	SizeRaw     string // Device size as given, e.g. "64MiB" or "1G"
	Size        uint64 // Device size in bytes (derived from SizeRaw)

	QueueDepth       int           // Backend workers
	MaxPending       int           // Queued plus in-flight requests before back-pressure
	DispatchInterval time.Duration // Dispatch loop idle tick
	SyncRatio        uint8         // Initial sync_ratio
	BatchCount       uint8         // Initial batch_count

	ShutdownTimeout time.Duration // Bound on drain and API shutdown
	RequestTimeout  time.Duration // Bound on API drain and I/O waits
	MaxPorts        int           // Ports to try when the default API port is busy

	LogLevel string // Log level: DEBUG, INFO, WARN, ERROR
	LogFile  string // Redirect logs to this file

	// Flags to track if values were explicitly set by user
	apiAddrExplicitlySet    bool
	syncRatioExplicitlySet  bool
	batchCountExplicitlySet bool
	logFileExplicitlySet    bool
}

// Global configuration instance
var Global Config

// SetExplicitlySet marks a configuration field as explicitly set by the user.
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	switch field {
	case APIAddrField:
		c.apiAddrExplicitlySet = value
	case SyncRatioField:
		c.syncRatioExplicitlySet = value
	case BatchCountField:
		c.batchCountExplicitlySet = value
	case LogFileField:
		c.logFileExplicitlySet = value
	}
}

// IsExplicitlySet returns whether a configuration field was explicitly set by the user.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	switch field {
	case APIAddrField:
		return c.apiAddrExplicitlySet
	case SyncRatioField:
		return c.syncRatioExplicitlySet
	case BatchCountField:
		return c.batchCountExplicitlySet
	case LogFileField:
		return c.logFileExplicitlySet
	}
	return false
}
