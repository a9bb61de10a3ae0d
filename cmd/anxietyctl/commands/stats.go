package commands

import (
	"time"

	"github.com/spf13/cobra"
)

// Stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show device queue and scheduler counters",
	Long: `Show pending and in-flight requests, submission and completion
counters, the sync/async dispatch split and backend details.`,
	Example: `  anxietyctl stats
  anxietyctl stats --watch
  anxietyctl stats --watch --interval 500ms
  anxietyctl -v stats`,
	Args: cobra.NoArgs,
}

// Drain command
var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Force dispatch of every queued request",
	Long: `Dispatch all queued sync requests, then all async requests, ignoring
sync_ratio and batch_count, and wait for the device to finish them.`,
	Args: cobra.NoArgs,
}

// SetupStatsFlags configures the stats command flags
func SetupStatsFlags(watchPtr *bool, intervalPtr *time.Duration, defaultInterval time.Duration) {
	statsCmd.Flags().BoolVarP(watchPtr, "watch", "w", false, "Watch for live updates")
	statsCmd.Flags().DurationVar(intervalPtr, "interval", defaultInterval, "Refresh period in watch mode")
}

// GetStatsCommands returns the stats and drain commands for handler assignment
func GetStatsCommands() (*cobra.Command, *cobra.Command) {
	return statsCmd, drainCmd
}
