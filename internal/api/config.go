package api

import (
	"fmt"
	"time"

	"github.com/concave-dev/anxiety/internal/api/handlers"
	"github.com/concave-dev/anxiety/internal/config"
	"github.com/concave-dev/anxiety/internal/validate"
)

// DefaultRequestTimeout bounds how long a drain or I/O request may wait
const DefaultRequestTimeout = config.DefaultRequestTimeout

// Config holds the parameters required to run the HTTP API server.
//
// Queue is the device queue the handlers operate on. It is injected so
// tests can serve a queue over a memory backend.
//
// TODO: Add support for TLS/HTTPS configuration (cert/key files)
type Config struct {
	BindAddr       string               // HTTP server bind address (e.g., "127.0.0.1")
	BindPort       int                  // HTTP server bind port
	RequestTimeout time.Duration        // Upper bound on drain and I/O waits
	Queue          handlers.DeviceQueue // Device queue served by the handlers
}

// DefaultConfig creates a Config with loopback binding and the default port.
// Queue must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:       config.DefaultBindAddr,
		BindPort:       config.DefaultAPIPort,
		RequestTimeout: DefaultRequestTimeout,
		Queue:          nil,
	}
}

// Validate checks that the server can start with this configuration
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if err := validate.ValidatePositiveTimeout(c.RequestTimeout, "request timeout"); err != nil {
		return err
	}
	if c.Queue == nil {
		return fmt.Errorf("device queue cannot be nil")
	}

	return nil
}
