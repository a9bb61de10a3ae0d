package commands

import (
	"github.com/spf13/cobra"
)

// Tunable command group
var tunableCmd = &cobra.Command{
	Use:     "tunable",
	Aliases: []string{"tunables"},
	Short:   "Inspect and change scheduler tunables",
	Long: `Commands for the scheduler's tunables.

  sync_ratio   sync requests dispatched per round before one async request
  batch_count  rounds per dispatch call (values below 1 are stored as 1)`,
}

var tunableLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all tunables with current and default values",
	Args:  cobra.NoArgs,
}

var tunableGetCmd = &cobra.Command{
	Use:     "get <name>",
	Short:   "Print the current value of a tunable",
	Example: `  anxietyctl tunable get sync_ratio`,
	Args:    cobra.ExactArgs(1),
}

var tunableSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Store a new value into a tunable",
	Long: `Store a new value into a tunable. The value is a decimal number
from 0 to 255 and is parsed by the daemon; the value in effect afterwards
is printed.`,
	Example: `  anxietyctl tunable set batch_count 2`,
	Args:    cobra.ExactArgs(2),
}

// GetTunableCommands returns the tunable subcommands for handler assignment
func GetTunableCommands() (*cobra.Command, *cobra.Command, *cobra.Command) {
	return tunableLsCmd, tunableGetCmd, tunableSetCmd
}
