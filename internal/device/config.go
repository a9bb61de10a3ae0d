package device

import (
	"fmt"
	"time"

	"github.com/concave-dev/anxiety/internal/config"
	"github.com/concave-dev/anxiety/internal/iosched"
	"github.com/concave-dev/anxiety/internal/validate"
)

// Config holds the device queue's sizing and the initial scheduler tunables.
type Config struct {
	// Name labels logs and metrics
	Name string `json:"name"`

	// QueueDepth is the number of backend workers, and the in-flight level
	// below which the dispatch loop keeps asking the scheduler for work
	QueueDepth int `json:"queue_depth"`

	// MaxPending caps requests that are queued or in flight. Submit returns
	// QueueFullError once it is reached
	MaxPending int `json:"max_pending"`

	// MaxMergeBytes caps the size a request may grow to by merging
	MaxMergeBytes uint64 `json:"max_merge_bytes"`

	// DispatchInterval is the idle tick of the dispatch loop
	DispatchInterval time.Duration `json:"dispatch_interval"`

	SyncRatio  uint8 `json:"sync_ratio"`
	BatchCount uint8 `json:"batch_count"`
}

// DefaultConfig returns a Config with the shared defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:             "anxiety0",
		QueueDepth:       config.DefaultQueueDepth,
		MaxPending:       config.DefaultMaxPending,
		MaxMergeBytes:    1 << 20,
		DispatchInterval: config.DefaultDispatchInterval,
		SyncRatio:        iosched.DefaultSyncRatio,
		BatchCount:       iosched.DefaultBatchCount,
	}
}

// Validate checks the configuration. BatchCount 0 is not an error; the
// scheduler raises it to 1.
func (c *Config) Validate() error {
	if err := validate.DeviceName(c.Name); err != nil {
		return err
	}
	if err := validate.ValidatePositiveInt(c.QueueDepth, "queue depth"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveInt(c.MaxPending, "max pending"); err != nil {
		return err
	}
	if c.MaxPending < c.QueueDepth {
		return fmt.Errorf("max pending (%d) must be at least queue depth (%d)", c.MaxPending, c.QueueDepth)
	}
	if c.MaxPending > 1<<16 {
		return fmt.Errorf("max pending too large (max 65536), got %d", c.MaxPending)
	}
	if err := validate.ValidatePositiveTimeout(c.DispatchInterval, "dispatch interval"); err != nil {
		return err
	}
	return nil
}
