package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/policy"
	"github.com/azstack-io/azstack/providers/noop"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what up would materialize",
	Long: `Composes the full stack topology for the target environment and walks
it against a provider that materializes nothing. The output shows every
resource in creation order with its deterministic name.`,
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	d, _, settings, err := buildDeployment()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	dag, err := engine.BuildDAG(d.Resources())
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}

	byAddr := make(map[string]*engine.Resource, len(d.Resources()))
	for _, res := range d.Resources() {
		byAddr[res.Addr()] = res
	}

	fmt.Fprintf(out, "Preview for environment %s (%s):\n\n", settings.Name, d.Location)
	for _, addr := range dag.CreationOrder() {
		res := byAddr[addr]
		fmt.Fprintf(out, "\033[32m  + %s\033[0m %q\n", res.Kind, res.Name)
	}
	fmt.Fprintf(out, "\n%d resources would be created.\n", len(d.Resources()))

	result, err := d.Run(cmd.Context(), engine.RunOptions{
		Provider:  noop.New(),
		Validator: &policy.Recorder{},
	})
	if err != nil {
		return fmt.Errorf("preview walk failed: %w", err)
	}
	if len(result.Violations) > 0 {
		fmt.Fprintln(out, "\nPolicy violations:")
		for _, v := range result.Violations {
			fmt.Fprintf(out, "  %s %s: [%s] %s\n", v.Kind, v.Name, v.Rule, v.Message)
		}
	}
	if len(result.Exports) > 0 {
		fmt.Fprintln(out, "\nOutputs:")
		renderExports(out, result.Exports)
	}
	return nil
}
