package handlers

import (
	"github.com/spf13/cobra"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/client"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/display"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/utils"
	"github.com/concave-dev/anxiety/internal/logging"
)

// HandleStats handles the stats command, optionally in watch mode
func HandleStats(cmd *cobra.Command, args []string) error {
	setup()

	apiClient := client.CreateAPIClient()
	fetchAndDisplayStats := func() error {
		logging.Info("Fetching device stats from API server: %s", config.Global.APIAddr)

		stats, err := apiClient.GetStats()
		if err != nil {
			return err
		}

		display.DisplayStats(stats)
		return nil
	}

	return utils.RunWithWatch(fetchAndDisplayStats, config.Stats.Watch, config.Stats.Interval, "anxietyctl stats")
}

// HandleDrain handles the drain command
func HandleDrain(cmd *cobra.Command, args []string) error {
	setup()

	logging.Info("Draining device queue on %s", config.Global.APIAddr)

	result, err := client.CreateAPIClient().Drain()
	if err != nil {
		return err
	}

	display.DisplayDrain(result)
	logging.Success("Drain complete")
	return nil
}
