package handlers

import (
	"github.com/spf13/cobra"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/client"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/display"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/utils"
	"github.com/concave-dev/anxiety/internal/logging"
)

// setup is the common prologue of every handler
func setup() {
	utils.SetupLogging()
}

// HandleInfo handles the info command: daemon health plus host resources
func HandleInfo(cmd *cobra.Command, args []string) error {
	setup()

	logging.Info("Fetching daemon information from API server: %s", config.Global.APIAddr)

	apiClient := client.CreateAPIClient()
	health, err := apiClient.GetHealth()
	if err != nil {
		return err
	}

	host, err := apiClient.GetHost()
	if err != nil {
		return err
	}

	display.DisplayInfo(health, host)
	logging.Success("Device %s is %s", health.Device, health.Status)
	return nil
}
