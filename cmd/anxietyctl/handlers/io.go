package handlers

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/client"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/display"
	"github.com/concave-dev/anxiety/internal/logging"
)

// writePayload returns the bytes for io write from --data or --file
func writePayload() ([]byte, error) {
	switch {
	case config.IO.Data != "" && config.IO.File != "":
		return nil, fmt.Errorf("--data and --file are mutually exclusive")
	case config.IO.File != "":
		data, err := os.ReadFile(config.IO.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return data, nil
	case config.IO.Data != "":
		return []byte(config.IO.Data), nil
	default:
		return nil, fmt.Errorf("write needs --data or --file")
	}
}

// HandleIOWrite handles io write
func HandleIOWrite(cmd *cobra.Command, args []string) error {
	setup()

	data, err := writePayload()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("write payload is empty")
	}

	logging.Info("Writing %s at offset %d", humanize.IBytes(uint64(len(data))), config.IO.Offset)

	result, err := client.CreateAPIClient().Write(config.IO.Offset, data, config.IO.Sync)
	if err != nil {
		return err
	}

	display.DisplayIOResult(result, nil)
	logging.Success("Write %s completed in %s", result.ID, result.Latency)
	return nil
}

// HandleIORead handles io read. With --file the data is saved instead of
// dumped.
func HandleIORead(cmd *cobra.Command, args []string) error {
	setup()

	if config.IO.Length == 0 {
		return fmt.Errorf("read needs --length greater than 0")
	}

	logging.Info("Reading %s at offset %d", humanize.IBytes(config.IO.Length), config.IO.Offset)

	result, data, err := client.CreateAPIClient().Read(config.IO.Offset, config.IO.Length, config.IO.Sync)
	if err != nil {
		return err
	}

	if config.IO.File != "" {
		if err := os.WriteFile(config.IO.File, data, 0o644); err != nil {
			return fmt.Errorf("failed to save read data: %w", err)
		}
		display.DisplayIOResult(result, nil)
		logging.Success("Saved %s to %s", humanize.IBytes(uint64(len(data))), config.IO.File)
		return nil
	}

	display.DisplayIOResult(result, data)
	return nil
}

// HandleIOFlush handles io flush
func HandleIOFlush(cmd *cobra.Command, args []string) error {
	setup()

	result, err := client.CreateAPIClient().Submit(client.IORequest{Op: "flush", Sync: true})
	if err != nil {
		return err
	}

	display.DisplayIOResult(result, nil)
	return nil
}
