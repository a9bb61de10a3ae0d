package commands

import (
	"github.com/spf13/cobra"

	"github.com/concave-dev/anxiety/cmd/anxietyd/config"
	configDefaults "github.com/concave-dev/anxiety/internal/config"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	// API flags
	cmd.Flags().StringVar(&config.Global.APIAddr, "api", config.DefaultAPI,
		"Address and port for HTTP API server (e.g., "+config.DefaultAPI+")\n"+
			"If not specified, the next free port after the default is used when it is busy")

	// Device flags
	cmd.Flags().StringVar(&config.Global.DeviceName, "name", "",
		"Device name (defaults to generated name like 'jittery-spindle')")
	cmd.Flags().StringVar(&config.Global.Backend, "backend", config.DefaultBackend,
		"Backend kind: memory or file")
	cmd.Flags().StringVar(&config.Global.BackendPath, "backend-path", "",
		"Backing file for the file backend (created and grown to --size if needed)")
	cmd.Flags().StringVar(&config.Global.SizeRaw, "size", config.DefaultSize,
		"Device size (e.g., 64MiB, 1GiB, 500MB)")

	// Queue flags
	cmd.Flags().IntVar(&config.Global.QueueDepth, "depth", configDefaults.DefaultQueueDepth,
		"Requests the backend services concurrently")
	cmd.Flags().IntVar(&config.Global.MaxPending, "max-pending", configDefaults.DefaultMaxPending,
		"Queued plus in-flight requests before submissions are rejected")
	cmd.Flags().DurationVar(&config.Global.DispatchInterval, "dispatch-interval", configDefaults.DefaultDispatchInterval,
		"Idle tick of the dispatch loop")

	// Scheduler tunables
	cmd.Flags().Uint8Var(&config.Global.SyncRatio, "sync-ratio", config.DefaultSyncRatio,
		"Sync requests dispatched per round before one async request (env "+config.EnvSyncRatio+")")
	cmd.Flags().Uint8Var(&config.Global.BatchCount, "batch-count", config.DefaultBatchCount,
		"Rounds per dispatch call, minimum 1 (env "+config.EnvBatchCount+")")

	// Operational flags
	cmd.Flags().DurationVar(&config.Global.ShutdownTimeout, "shutdown-timeout", configDefaults.DefaultShutdownTimeout,
		"Time allowed to drain the queue and stop the API on shutdown")
	cmd.Flags().DurationVar(&config.Global.RequestTimeout, "request-timeout", configDefaults.DefaultRequestTimeout,
		"Time an API drain or I/O request may wait for completion")
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Write logs to this file instead of stdout/stderr")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.APIAddrField, cmd.Flags().Changed("api"))
	config.Global.SetExplicitlySet(config.SyncRatioField, cmd.Flags().Changed("sync-ratio"))
	config.Global.SetExplicitlySet(config.BatchCountField, cmd.Flags().Changed("batch-count"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
}
