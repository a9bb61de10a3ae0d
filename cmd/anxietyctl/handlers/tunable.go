package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/client"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/display"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/validate"
)

// HandleTunableList handles tunable ls
func HandleTunableList(cmd *cobra.Command, args []string) error {
	setup()

	logging.Info("Fetching scheduler tunables from API server: %s", config.Global.APIAddr)

	list, err := client.CreateAPIClient().ListTunables()
	if err != nil {
		return err
	}

	display.DisplayTunables(list)
	logging.Success("Retrieved %d tunables for device %s", len(list.Tunables), list.Device)
	return nil
}

// HandleTunableGet handles tunable get <name>
func HandleTunableGet(cmd *cobra.Command, args []string) error {
	setup()

	name := args[0]
	if err := validate.TunableName(name); err != nil {
		return err
	}

	tunable, err := client.CreateAPIClient().GetTunable(name)
	if err != nil {
		return err
	}

	display.DisplayTunable(tunable)
	return nil
}

// HandleTunableSet handles tunable set <name> <value>. The value is sent
// as text; the daemon parses it and may clamp it, so the stored value is
// reported back.
func HandleTunableSet(cmd *cobra.Command, args []string) error {
	setup()

	name, value := args[0], args[1]
	if err := validate.TunableName(name); err != nil {
		return err
	}

	logging.Info("Setting %s to %q on %s", name, value, config.Global.APIAddr)

	tunable, err := client.CreateAPIClient().SetTunable(name, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}

	if tunable.Value != value {
		logging.Warn("%s stored as %s (requested %s)", name, tunable.Value, value)
	}

	display.DisplayTunable(tunable)
	logging.Success("Updated %s", name)
	return nil
}
