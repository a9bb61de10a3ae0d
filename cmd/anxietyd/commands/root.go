// Package commands provides the CLI command structure for the anxiety daemon.
//
// The daemon is a single root command. PreRunE records which flags were
// given, redirects logging when --log-file is set, applies environment
// overrides and validates the configuration; RunE hands over to the
// daemon package.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/concave-dev/anxiety/cmd/anxietyd/config"
	"github.com/concave-dev/anxiety/cmd/anxietyd/daemon"
	"github.com/concave-dev/anxiety/cmd/anxietyd/utils"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/version"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// Use fmt.Fprintf instead of logging, the log file is going away
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// Root command for the anxiety daemon
var RootCmd = &cobra.Command{
	Use:   "anxietyd",
	Short: "Block device daemon with a batch and starvation aware I/O scheduler",
	Long: `anxiety daemon (anxietyd) serves one block device through the anxiety I/O scheduler.

Synchronous requests are dispatched in batches of sync_ratio, with one
asynchronous request after each batch so background writes never starve.
batch_count bounds the rounds per dispatch call. Both tunables can be
changed at runtime with anxietyctl.

Scheduler defaults: ` + config.TunableDefaults(),
	Version:      version.AnxietydVersion,
	SilenceUsage: true, // Don't show usage on errors
	Example: `  # Serve a 64 MiB memory device on the default API address
  anxietyd

  # Back the device with a file and favor synchronous reads more strongly
  anxietyd --backend=file --backend-path=/var/lib/anxiety/disk0.img --size=1GiB --sync-ratio=16

  # Start with tunables from the environment
  ANXIETY_SYNC_RATIO=4 ANXIETY_BATCH_COUNT=2 anxietyd --name=scratch`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(version.AnxietydVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		CheckExplicitFlags(cmd)

		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}

			logging.SetOutput(logFileHandle)
		}

		// Apply the level before and after environment overrides so
		// --log-level=ERROR also silences config initialization
		logging.SetLevel(config.Global.LogLevel)
		config.InitializeConfig()
		logging.SetLevel(config.Global.LogLevel)

		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(RootCmd)
}
