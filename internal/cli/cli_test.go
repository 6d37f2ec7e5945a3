package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with a fresh flag state and captures output.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	rootEnvironment = ""
	rootStack = ""
	rootConfigFile = "azstack.yaml"
	outputJSON = false
	upAutoApprove = false
	upProviderName = "azure"

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestEnvironmentsCommand(t *testing.T) {
	out := execute(t, "environments")

	for _, env := range config.Environments() {
		assert.Contains(t, out, env)
	}
	assert.Contains(t, out, "location=westus2")
	assert.Contains(t, out, "vnet=10.0.0.0/16")
}

func TestGraphCommand(t *testing.T) {
	out := execute(t, "graph", "-e", "dev")

	assert.Contains(t, out, "digraph azstack {")
	assert.Contains(t, out, `"azure:Network.VirtualNetwork.vnet-main-dev" -> "azure:Resources.ResourceGroup.rg-network-dev";`)
	assert.Contains(t, out, `"azure:Insights.Component.appi-app-dev" -> "azure:OperationalInsights.Workspace.law-central-dev";`)
}

func TestPreviewCommand(t *testing.T) {
	out := execute(t, "preview", "-e", "dev")

	assert.Contains(t, out, "Preview for environment dev (westus2):")
	assert.Contains(t, out, `"rg-app-dev"`)
	assert.Contains(t, out, "22 resources would be created.")
	assert.Contains(t, out, `key_vault_uri = "https://kv-main-dev.vault.azure.net/"`)
}

func TestOutputCommand_All(t *testing.T) {
	out := execute(t, "output", "-e", "dev")

	assert.Contains(t, out, `app_resource_group_name = "rg-app-dev"`)
	assert.Contains(t, out, `vnet_name = "vnet-main-dev"`)

	// Exports keep their publication order: plain values first.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "environment = "))
}

func TestOutputCommand_SingleJSON(t *testing.T) {
	out := execute(t, "output", "-e", "dev", "--json", "app_storage_name")

	var name string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &name))
	assert.Equal(t, "stappdev", name)
}

func TestOutputCommand_UnknownName(t *testing.T) {
	rootEnvironment = ""
	rootStack = ""
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"output", "-e", "dev", "no_such_export"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"no_such_export" not found`)
}

func TestUpCommand_NoopProvider(t *testing.T) {
	out := execute(t, "up", "-e", "dev", "--provider", "noop", "--auto-approve")

	assert.Contains(t, out, "Environment dev (westus2): 22 resources to materialize.")
	assert.Contains(t, out, "Up complete! 22 resources materialized (run ")
	assert.Contains(t, out, `log_analytics_workspace_id = "workspace-law-central-dev"`)
}

func TestUpCommand_DeclinedPrompt(t *testing.T) {
	rootEnvironment = ""
	rootStack = ""
	upAutoApprove = false
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader("n\n"))
	rootCmd.SetArgs([]string{"up", "-e", "dev", "--provider", "noop"})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Do you want to perform these actions? (y/n): ")
	assert.Contains(t, out, "Up cancelled.")
	assert.NotContains(t, out, "Up complete!")
}

func TestUpCommand_UnknownEnvironment(t *testing.T) {
	rootEnvironment = ""
	rootStack = ""
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"up", "-e", "integration", "--provider", "noop", "--auto-approve"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownEnvironment)
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "azstack version dev")
}

func TestTargetEnvironment(t *testing.T) {
	rootEnvironment = "qa"
	rootStack = "org/project/prod"
	env, err := targetEnvironment(&config.Context{})
	require.NoError(t, err)
	assert.Equal(t, "qa", env)

	rootEnvironment = ""
	env, err = targetEnvironment(&config.Context{})
	require.NoError(t, err)
	assert.Equal(t, "prod", env)

	rootStack = ""
	env, err = targetEnvironment(&config.Context{StackName: "webapp-staging/staging"})
	require.NoError(t, err)
	assert.Equal(t, "staging", env)

	_, err = targetEnvironment(&config.Context{})
	assert.Error(t, err)
}
