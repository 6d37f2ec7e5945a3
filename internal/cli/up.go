package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/provider"
	pkgprovider "github.com/azstack-io/azstack/pkg/provider"
)

var (
	upProviderName string
	upAutoApprove  bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Materialize the environment",
	Long: `Builds the full stack topology for the target environment and
materializes every resource in dependency order.

A failed resource aborts the run; resources already created are left in
place, and re-running converges because all names are deterministic.`,
	RunE: runUp,
}

func init() {
	upCmd.Flags().StringVar(&upProviderName, "provider", "azure", "Provider backend (azure, noop)")
	upCmd.Flags().BoolVar(&upAutoApprove, "auto-approve", false, "Skip interactive approval before materializing")
}

func runUp(cmd *cobra.Command, args []string) error {
	d, cfgCtx, settings, err := buildDeployment()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	resources := d.Resources()
	fmt.Fprintf(out, "Environment %s (%s): %d resources to materialize.\n",
		settings.Name, d.Location, len(resources))

	if !upAutoApprove {
		fmt.Fprint(out, "\nDo you want to perform these actions? (y/n): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Up cancelled.")
			return nil
		}
	}

	registry := provider.NewRegistry()
	if err := registry.Load(upProviderName); err != nil {
		return err
	}
	prov, err := registry.Get(upProviderName)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := prov.Configure(ctx, &pkgprovider.ConfigureRequest{
		SubscriptionID: cfgCtx.SubscriptionID,
		TenantID:       cfgCtx.TenantID,
		Location:       d.Location,
	}); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", upProviderName, err)
	}

	result, err := d.Run(ctx, engine.RunOptions{
		Provider: prov,
		Callback: func(ev engine.Event) {
			switch ev.Status {
			case "completed":
				fmt.Fprintf(out, "  + %s (%s)\n", ev.Address, ev.Duration.Round(time.Millisecond))
			case "failed":
				fmt.Fprintf(out, "  ! %s: %v\n", ev.Address, ev.Err)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("up failed: %w", err)
	}

	fmt.Fprintf(out, "\nUp complete! %d resources materialized (run %s).\n", len(result.Order), result.Lineage)
	if len(result.Exports) > 0 {
		fmt.Fprintln(out, "\nOutputs:")
		renderExports(out, result.Exports)
	}
	return nil
}
