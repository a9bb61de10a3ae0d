// Package commands defines the anxietyctl command tree.
//
//   - info: daemon health and host resources
//   - tunable: scheduler tunables (ls, get, set)
//   - stats: device queue and scheduler counters
//   - drain: force dispatch of everything queued
//   - io: submit single requests (write, read, flush)
//
// Commands carry no RunE here; the main package assigns handlers.
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "anxietyctl",
	Short: "CLI tool for the anxiety I/O scheduler daemon",
	Long: `Anxiety CLI (anxietyctl) inspects and tunes a running anxietyd.

It reads and writes the scheduler tunables (sync_ratio, batch_count),
shows queue counters, forces drains and submits single I/O requests.`,
	SilenceUsage: true,
	Example: `  # Show daemon information
  anxietyctl info

  # List scheduler tunables
  anxietyctl tunable ls

  # Let 16 sync requests through per round
  anxietyctl tunable set sync_ratio 16

  # Watch queue counters
  anxietyctl stats --watch

  # Connect to a remote daemon
  anxietyctl --api=192.168.1.100:7070 stats

  # Output in JSON format
  anxietyctl -o json tunable ls`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(infoCmd)
	RootCmd.AddCommand(tunableCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(drainCmd)
	RootCmd.AddCommand(ioCmd)

	tunableCmd.AddCommand(tunableLsCmd)
	tunableCmd.AddCommand(tunableGetCmd)
	tunableCmd.AddCommand(tunableSetCmd)

	ioCmd.AddCommand(ioWriteCmd)
	ioCmd.AddCommand(ioReadCmd)
	ioCmd.AddCommand(ioFlushCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	timeoutPtr *int, verbosePtr *bool, outputPtr *string, defaultAPIAddr string) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"anxietyd API server address")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 8,
		"Request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}
