package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azstack-io/azstack/internal/engine"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Output the dependency graph in DOT format",
	Long: `Generates a visual representation of the resource dependency graph
in Graphviz DOT format. Pipe the output to 'dot' to generate an image:

  azstack graph -e dev | dot -Tpng > graph.png`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	d, _, _, err := buildDeployment()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	dag, err := engine.BuildDAG(d.Resources())
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	fmt.Fprintln(out, "digraph azstack {")
	fmt.Fprintln(out, "  rankdir = \"BT\";")
	fmt.Fprintln(out, "  node [shape = rect];")
	fmt.Fprintln(out)

	for _, res := range d.Resources() {
		fmt.Fprintf(out, "  %q;\n", res.Addr())
	}
	fmt.Fprintln(out)

	for _, res := range d.Resources() {
		for _, dep := range dag.Dependencies(res.Addr()) {
			fmt.Fprintf(out, "  %q -> %q;\n", res.Addr(), dep)
		}
	}

	fmt.Fprintln(out, "}")
	return nil
}
