package commands

import (
	"github.com/spf13/cobra"
)

// IO command group
var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Submit single I/O requests to the device",
	Long:  "Submit a read, write or flush through the scheduler and wait for it to complete.",
}

var ioWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write bytes at an offset",
	Example: `  anxietyctl io write --offset 4096 --data hello --sync
  anxietyctl io write --offset 0 --file ./block.bin`,
	Args: cobra.NoArgs,
}

var ioReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read bytes at an offset",
	Example: `  anxietyctl io read --offset 4096 --length 5
  anxietyctl io read --offset 0 --length 4096 --file ./out.bin`,
	Args: cobra.NoArgs,
}

var ioFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Flush the device backend",
	Args:  cobra.NoArgs,
}

// SetupIOFlags configures the io subcommand flags
func SetupIOFlags(offsetPtr, lengthPtr *uint64, syncPtr *bool, dataPtr, filePtr *string) {
	for _, cmd := range []*cobra.Command{ioWriteCmd, ioReadCmd} {
		cmd.Flags().Uint64Var(offsetPtr, "offset", 0, "Byte offset on the device")
		cmd.Flags().BoolVar(syncPtr, "sync", false, "Submit as a synchronous request")
		cmd.Flags().StringVar(filePtr, "file", "", "Payload file (write) or destination file (read)")
	}
	ioWriteCmd.Flags().StringVar(dataPtr, "data", "", "Literal payload to write")
	ioReadCmd.Flags().Uint64Var(lengthPtr, "length", 0, "Number of bytes to read")
	ioReadCmd.MarkFlagRequired("length")
}

// GetIOCommands returns the io subcommands for handler assignment
func GetIOCommands() (*cobra.Command, *cobra.Command, *cobra.Command) {
	return ioWriteCmd, ioReadCmd, ioFlushCmd
}
