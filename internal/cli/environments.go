package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azstack-io/azstack/internal/config"
)

var environmentsCmd = &cobra.Command{
	Use:   "environments",
	Short: "List the configured environments",
	RunE:  runEnvironments,
}

func runEnvironments(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range config.Environments() {
		settings, err := config.Settings(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-8s location=%s vnet=%s log-retention=%dd\n",
			name, settings.Location,
			settings.Network.VNetAddressSpace[0],
			settings.Monitoring.LogRetentionDays)
	}
	return nil
}
