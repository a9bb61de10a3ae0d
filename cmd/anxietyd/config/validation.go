package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/concave-dev/anxiety/internal/iosched"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/validate"
)

// InitializeConfig applies environment variable overrides before validation.
// Tunable variables only apply when the matching flag was not given.
func InitializeConfig() {
	if os.Getenv(EnvDebug) == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}

	if Global.MaxPorts == 0 {
		Global.MaxPorts = 100
	}

	if !Global.syncRatioExplicitlySet {
		if v, ok := tunableFromEnv(EnvSyncRatio, Global.SyncRatio); ok {
			Global.SyncRatio = v
		}
	}
	if !Global.batchCountExplicitlySet {
		if v, ok := tunableFromEnv(EnvBatchCount, Global.BatchCount); ok {
			Global.BatchCount = v
		}
	}
}

func tunableFromEnv(name string, current uint8) (uint8, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
	if err != nil {
		logging.Warn("Invalid %s environment variable '%s', using: %d", name, raw, current)
		return 0, false
	}

	logging.Info("%s environment variable detected, setting to %d", name, v)
	return uint8(v), true
}

// ValidateConfig validates and normalizes the daemon configuration.
//
// It splits the API address into host and port, lowercases and checks the
// device name, parses the device size, and checks backend, queue sizing,
// timeouts and the log level. A batch_count of 0 is raised to 1 here with a
// warning so the logged configuration matches what the scheduler stores.
func ValidateConfig() error {
	if Global.MaxPorts < 1 || Global.MaxPorts > 10000 {
		logging.Error("Invalid max-ports value: %d (must be between 1 and 10000)", Global.MaxPorts)
		return fmt.Errorf("max-ports must be between 1 and 10000, got: %d", Global.MaxPorts)
	}

	apiNetAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address: %w", err)
	}
	if Global.apiAddrExplicitlySet {
		if err := validate.ValidateField(apiNetAddr.Port, "required,min=1,max=65535"); err != nil {
			logging.Error("API port cannot be 0 (auto-assigned) - anxietyctl needs a known port")
			return fmt.Errorf("API address requires specific port (not 0): %w", err)
		}
	}
	Global.APIAddr = apiNetAddr.Host
	Global.APIPort = apiNetAddr.Port

	// Device names are validated if provided; generation happens in the daemon
	if Global.DeviceName != "" {
		originalName := Global.DeviceName
		Global.DeviceName = strings.ToLower(Global.DeviceName)
		if originalName != Global.DeviceName {
			logging.Warn("Device name '%s' converted to lowercase: '%s'", originalName, Global.DeviceName)
		}

		if err := validate.DeviceName(Global.DeviceName); err != nil {
			logging.Error("Invalid device name '%s': %v", Global.DeviceName, err)
			return fmt.Errorf("invalid device name: %w", err)
		}
	}

	if err := validate.ValidateOneOf(Global.Backend, "backend", "memory", "file"); err != nil {
		return err
	}
	if Global.Backend == "file" {
		if err := validate.ValidateRequiredString(Global.BackendPath, "backend path"); err != nil {
			return fmt.Errorf("file backend requires --backend-path: %w", err)
		}
	} else if Global.BackendPath != "" {
		logging.Warn("--backend-path is ignored by the %s backend", Global.Backend)
	}

	size, err := humanize.ParseBytes(Global.SizeRaw)
	if err != nil {
		return fmt.Errorf("invalid device size '%s': %w", Global.SizeRaw, err)
	}
	if size == 0 {
		return fmt.Errorf("device size must be positive")
	}
	Global.Size = size

	if err := validate.ValidatePositiveInt(Global.QueueDepth, "queue depth"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveInt(Global.MaxPending, "max pending"); err != nil {
		return err
	}
	if Global.MaxPending < Global.QueueDepth {
		return fmt.Errorf("max pending (%d) must be at least queue depth (%d)", Global.MaxPending, Global.QueueDepth)
	}

	if Global.BatchCount == 0 {
		logging.Warn("batch_count=0 raised to 1")
		Global.BatchCount = 1
	}

	if err := validate.ValidatePositiveTimeout(Global.DispatchInterval, "dispatch interval"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveTimeout(Global.ShutdownTimeout, "shutdown timeout"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveTimeout(Global.RequestTimeout, "request timeout"); err != nil {
		return err
	}

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	return nil
}

// TunableDefaults reports the scheduler's own defaults, used in flag help.
func TunableDefaults() string {
	var parts []string
	for _, attr := range iosched.Attributes() {
		parts = append(parts, fmt.Sprintf("%s=%d", attr.Name, attr.Default))
	}
	return strings.Join(parts, ", ")
}
