package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/logging"
)

var (
	rootEnvironment string
	rootStack       string
	rootConfigFile  string
	rootLogLevel    string
	rootLogFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "azstack",
	Short: "Declarative Azure environment stacks",
	Long: `Azstack declares a complete Azure environment as five composable stacks:
core resource groups, networking, security, storage, and monitoring.

Resource names and tags are fully deterministic, so the same environment
always produces the same topology.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(rootLogLevel, rootLogFormat)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootEnvironment, "environment", "e", "", "Target environment (dev, qa, staging, prod)")
	rootCmd.PersistentFlags().StringVar(&rootStack, "stack", "", "Stack name; the environment is derived from its suffix")
	rootCmd.PersistentFlags().StringVarP(&rootConfigFile, "config", "c", "azstack.yaml", "Path to the YAML override file")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(outputCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(environmentsCmd)
	rootCmd.AddCommand(versionCmd)
}

// targetEnvironment resolves the environment from the --environment flag,
// falling back to the suffix of --stack or the stack name in the context.
func targetEnvironment(ctx *config.Context) (string, error) {
	if rootEnvironment != "" {
		return rootEnvironment, nil
	}
	if rootStack != "" {
		return config.EnvironmentFromStack(rootStack), nil
	}
	if ctx.StackName != "" {
		return config.EnvironmentFromStack(ctx.StackName), nil
	}
	return "", fmt.Errorf("no environment selected: pass --environment or --stack")
}
