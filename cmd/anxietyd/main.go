// Package main implements the anxiety daemon (anxietyd).
// anxietyd serves one block device through the anxiety I/O scheduler and
// exposes its tunables and statistics over an HTTP API.
package main

import (
	"os"

	"github.com/concave-dev/anxiety/cmd/anxietyd/commands"
)

// Main entry point
func main() {
	commands.SetupCommands()
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
