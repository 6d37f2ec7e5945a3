package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/providers/noop"
)

var outputJSON bool

var outputCmd = &cobra.Command{
	Use:   "output [name]",
	Short: "Show the exported values for an environment",
	Long: `Resolves the stack exports for the target environment.

Names and endpoints derive from the deterministic naming scheme; attribute
values that only exist after a real deployment are fabricated the same way
previews fabricate them. If no name is given, all exports are displayed.`,
	RunE: runOutput,
}

func init() {
	outputCmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
}

func runOutput(cmd *cobra.Command, args []string) error {
	d, _, _, err := buildDeployment()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	result, err := d.Run(cmd.Context(), engine.RunOptions{Provider: noop.New()})
	if err != nil {
		return fmt.Errorf("failed to resolve exports: %w", err)
	}

	if len(args) > 0 {
		name := args[0]
		val, ok := result.Exports[name]
		if !ok {
			return fmt.Errorf("output %q not found", name)
		}
		if outputJSON {
			data, err := json.Marshal(val)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, val)
		}
		return nil
	}

	if outputJSON {
		data, err := json.MarshalIndent(result.Exports, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, name := range d.ExportNames() {
		fmt.Fprintf(out, "%s = %v\n", name, formatValue(result.Exports[name]))
	}
	return nil
}
