// Package main is the entry point of anxietyctl, the operator CLI for
// anxietyd.
package main

import (
	"os"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/commands"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/handlers"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/utils"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Verbose, &config.Global.Output, config.DefaultAPIAddr)
	commands.SetupStatsFlags(&config.Stats.Watch, &config.Stats.Interval, utils.DefaultWatchInterval)
	commands.SetupIOFlags(&config.IO.Offset, &config.IO.Length, &config.IO.Sync,
		&config.IO.Data, &config.IO.File)

	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	commands.GetInfoCommand().RunE = handlers.HandleInfo

	tunableLsCmd, tunableGetCmd, tunableSetCmd := commands.GetTunableCommands()
	tunableLsCmd.RunE = handlers.HandleTunableList
	tunableGetCmd.RunE = handlers.HandleTunableGet
	tunableSetCmd.RunE = handlers.HandleTunableSet

	statsCmd, drainCmd := commands.GetStatsCommands()
	statsCmd.RunE = handlers.HandleStats
	drainCmd.RunE = handlers.HandleDrain

	ioWriteCmd, ioReadCmd, ioFlushCmd := commands.GetIOCommands()
	ioWriteCmd.RunE = handlers.HandleIOWrite
	ioReadCmd.RunE = handlers.HandleIORead
	ioFlushCmd.RunE = handlers.HandleIOFlush
}

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
