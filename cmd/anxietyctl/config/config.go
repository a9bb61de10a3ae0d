// Package config provides configuration management for the anxietyctl CLI.
package config

import (
	"fmt"
	"time"

	configDefaults "github.com/concave-dev/anxiety/internal/config"
	"github.com/concave-dev/anxiety/internal/version"
)

// Default API server address (routable)
var DefaultAPIAddr = fmt.Sprintf("%s:%d", configDefaults.DefaultBindAddr, configDefaults.DefaultAPIPort)

// Version returns the current anxietyctl CLI version from the centralized version package
var Version = version.AnxietyctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr  string // Address of anxietyd API server to connect to
	LogLevel string // Log level for CLI operations
	Timeout  int    // Request timeout in seconds
	Verbose  bool   // Show verbose output
	Output   string // Output format: table, json
}

// Stats holds the stats command configuration
var Stats struct {
	Watch    bool          // Enable watch mode for live updates
	Interval time.Duration // Watch refresh period
}

// IO holds the io command configuration
var IO struct {
	Offset uint64 // Byte offset on the device
	Length uint64 // Read length in bytes
	Sync   bool   // Submit as a synchronous request
	Data   string // Literal write payload
	File   string // Read the write payload from, or save read data to, this file
}
