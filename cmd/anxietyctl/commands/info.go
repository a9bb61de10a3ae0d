package commands

import (
	"github.com/spf13/cobra"
)

// Info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show daemon health and host resources",
	Long: `Show the daemon's health, version, uptime and device name together
with the host's CPU, memory and load.`,
	Example: `  anxietyctl info
  anxietyctl -o json info`,
	Args: cobra.NoArgs,
}

// GetInfoCommand returns the info command for handler assignment
func GetInfoCommand() *cobra.Command {
	return infoCmd
}
