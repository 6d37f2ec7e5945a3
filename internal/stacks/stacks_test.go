package stacks

import (
	"context"
	"sync"
	"testing"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/pkg/provider"
	"github.com/azstack-io/azstack/providers/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kindRecorder wraps a provider and records the kind of every resource in
// creation order.
type kindRecorder struct {
	inner provider.Provider

	mu    sync.Mutex
	kinds []string
	names []string
}

func (r *kindRecorder) Configure(ctx context.Context, req *provider.ConfigureRequest) error {
	return r.inner.Configure(ctx, req)
}

func (r *kindRecorder) Create(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	r.mu.Lock()
	r.kinds = append(r.kinds, req.Kind)
	r.names = append(r.names, req.Name)
	r.mu.Unlock()
	return r.inner.Create(ctx, req)
}

func composeDeployment(t *testing.T, environment string) (*engine.Deployment, config.EnvironmentSettings) {
	t.Helper()
	settings, err := config.Settings(environment)
	require.NoError(t, err)

	d := engine.NewDeployment(environment, settings.Location)
	ctx := &config.Context{Project: "webapp", StackName: environment}
	require.NoError(t, Compose(d, ctx, settings))
	return d, settings
}

func TestCompose_RegistersFullTopology(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	byKind := make(map[string][]string)
	for _, res := range d.Resources() {
		byKind[res.Kind] = append(byKind[res.Kind], res.Name)
	}

	assert.ElementsMatch(t, []string{
		"rg-app-dev", "rg-network-dev", "rg-security-dev", "rg-monitoring-dev", "rg-data-dev",
	}, byKind[provider.KindResourceGroup])
	assert.Equal(t, []string{"vnet-main-dev"}, byKind[provider.KindVirtualNetwork])
	assert.ElementsMatch(t, []string{"nsg-web-dev", "nsg-app-dev", "nsg-data-dev"}, byKind[provider.KindNetworkSecurityGroup])
	assert.Equal(t, []string{"kv-main-dev"}, byKind[provider.KindKeyVault])
	assert.ElementsMatch(t, []string{"id-app-dev", "id-data-dev"}, byKind[provider.KindManagedIdentity])
	assert.ElementsMatch(t, []string{"stappdev", "stlogsdev"}, byKind[provider.KindStorageAccount])
	assert.ElementsMatch(t, []string{
		"data", "uploads", "exports", "diagnostics", "audit", "flow-logs",
	}, byKind[provider.KindBlobContainer])
	assert.Equal(t, []string{"law-central-dev"}, byKind[provider.KindLogAnalytics])
	assert.Equal(t, []string{"appi-app-dev"}, byKind[provider.KindAppInsights])
}

func TestCompose_ResourceGroupsMaterializeFirst(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	rec := &kindRecorder{inner: noop.New()}
	_, err := d.Run(context.Background(), engine.RunOptions{Provider: rec})
	require.NoError(t, err)

	lastGroup := -1
	firstOther := len(rec.kinds)
	for i, kind := range rec.kinds {
		if kind == provider.KindResourceGroup {
			if i > lastGroup {
				lastGroup = i
			}
		} else if i < firstOther {
			firstOther = i
		}
	}
	assert.Less(t, lastGroup, firstOther,
		"every resource group must materialize before any resource inside one, got %v", rec.kinds)
}

func TestCompose_ExportsResolve(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	result, err := d.Run(context.Background(), engine.RunOptions{Provider: noop.New()})
	require.NoError(t, err)

	assert.Equal(t, "dev", result.Exports["environment"])
	assert.Equal(t, "westus2", result.Exports["location"])
	assert.Equal(t, "rg-app-dev", result.Exports["app_resource_group_name"])
	assert.Equal(t, "vnet-main-dev", result.Exports["vnet_name"])
	assert.Equal(t, "https://kv-main-dev.vault.azure.net/", result.Exports["key_vault_uri"])
	assert.Equal(t, "principal-id-app-dev", result.Exports["app_identity_principal_id"])
	assert.Equal(t, "stappdev", result.Exports["app_storage_name"])
	assert.Equal(t, "https://stappdev.blob.core.windows.net/", result.Exports["app_storage_blob_endpoint"])
	assert.Equal(t, "workspace-law-central-dev", result.Exports["log_analytics_workspace_id"])
	assert.Equal(t, "InstrumentationKey=ikey-appi-app-dev", result.Exports["app_insights_connection_string"])
}

func TestCompose_ExportNamesAreStable(t *testing.T) {
	first, _ := composeDeployment(t, "dev")
	second, _ := composeDeployment(t, "dev")

	assert.Equal(t, first.ExportNames(), second.ExportNames())
}

func TestNetworking_SubnetLayout(t *testing.T) {
	d, settings := composeDeployment(t, "dev")

	var vnet *engine.Resource
	for _, res := range d.Resources() {
		if res.Kind == provider.KindVirtualNetwork {
			vnet = res
		}
	}
	require.NotNil(t, vnet)

	subnets, ok := vnet.Properties["subnets"].([]any)
	require.True(t, ok)
	require.Len(t, subnets, 5)

	names := make([]string, 0, len(subnets))
	for _, s := range subnets {
		subnet := s.(map[string]any)
		names = append(names, subnet["name"].(string))
	}
	assert.Equal(t, []string{
		"snet-gateway-dev", "snet-web-dev", "snet-app-dev", "snet-data-dev", "snet-management-dev",
	}, names)

	web := subnets[1].(map[string]any)
	assert.Equal(t, settings.Network.SubnetPrefixes["web"], web["addressPrefix"])
	assert.Equal(t, []any{"Microsoft.KeyVault", "Microsoft.Storage"}, web["serviceEndpoints"])

	data := subnets[3].(map[string]any)
	assert.Equal(t, "Disabled", data["privateEndpointNetworkPolicies"])
}

func TestNetworking_WebRulesAllowHTTPSAndHTTP(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	var webNSG *engine.Resource
	for _, res := range d.Resources() {
		if res.Kind == provider.KindNetworkSecurityGroup && res.Name == "nsg-web-dev" {
			webNSG = res
		}
	}
	require.NotNil(t, webNSG)

	rules, ok := webNSG.Properties["securityRules"].([]any)
	require.True(t, ok)
	require.Len(t, rules, 2)

	https := rules[0].(map[string]any)
	assert.Equal(t, "AllowHTTPS", https["name"])
	assert.Equal(t, 100, https["priority"])
	assert.Equal(t, "443", https["destinationPortRange"])
	assert.Equal(t, "Internet", https["sourceAddressPrefix"])
	assert.Equal(t, "*", https["sourcePortRange"])

	http := rules[1].(map[string]any)
	assert.Equal(t, "AllowHTTP", http["name"])
	assert.Equal(t, 110, http["priority"])
	assert.Equal(t, "80", http["destinationPortRange"])
}

func TestNetworking_SubnetIDDerivesFromVNet(t *testing.T) {
	settings, err := config.Settings("dev")
	require.NoError(t, err)

	d := engine.NewDeployment("dev", settings.Location)
	ctx := &config.Context{Project: "webapp"}

	core, err := NewCore(d, ctx, settings)
	require.NoError(t, err)
	networking, err := NewNetworking(d, ctx, settings, core.NetworkGroupName())
	require.NoError(t, err)

	subnetID, err := networking.SubnetID("web")
	require.NoError(t, err)
	d.Export("web_subnet_id", subnetID)

	result, err := d.Run(context.Background(), engine.RunOptions{Provider: noop.New()})
	require.NoError(t, err)

	vnetID := result.Exports["web_subnet_id"].(string)
	assert.Contains(t, vnetID, "/providers/azure:Network.VirtualNetwork/vnet-main-dev/subnets/snet-web-dev")

	_, err = networking.SubnetID("dmz")
	assert.Error(t, err)
}

func TestSecurity_ProdAlwaysGetsPurgeProtection(t *testing.T) {
	settings, err := config.Settings("prod")
	require.NoError(t, err)
	require.True(t, settings.Security.EnablePurgeProtection)

	// Even with the flag forced off, prod keeps purge protection.
	settings.Security.EnablePurgeProtection = false

	d := engine.NewDeployment("prod", settings.Location)
	ctx := &config.Context{Project: "webapp"}
	core, err := NewCore(d, ctx, settings)
	require.NoError(t, err)
	_, err = NewSecurity(d, ctx, settings, core.SecurityGroupName(), "tenant-id")
	require.NoError(t, err)

	var vault *engine.Resource
	for _, res := range d.Resources() {
		if res.Kind == provider.KindKeyVault {
			vault = res
		}
	}
	require.NotNil(t, vault)
	assert.Equal(t, true, vault.Properties["enablePurgeProtection"])
	assert.Equal(t, "tenant-id", vault.Properties["tenantId"])
	assert.Equal(t, settings.Security.SoftDeleteRetentionDays, vault.Properties["softDeleteRetentionDays"])
}

func TestStorage_ContainersFollowTheirAccount(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	rec := &kindRecorder{inner: noop.New()}
	_, err := d.Run(context.Background(), engine.RunOptions{Provider: rec})
	require.NoError(t, err)

	accountIdx := make(map[string]int)
	for i, kind := range rec.kinds {
		if kind == provider.KindStorageAccount {
			accountIdx[rec.names[i]] = i
		}
	}
	require.Len(t, accountIdx, 2)

	for i, kind := range rec.kinds {
		if kind == provider.KindBlobContainer {
			ok := false
			for _, idx := range accountIdx {
				if idx < i {
					ok = true
				}
			}
			assert.True(t, ok, "container %s created before any storage account", rec.names[i])
		}
	}
}

func TestMonitoring_ProdRetentionFloor(t *testing.T) {
	settings, err := config.Settings("dev")
	require.NoError(t, err)
	settings.Name = "prod"
	settings.Monitoring.LogRetentionDays = 30

	d := engine.NewDeployment("prod", settings.Location)
	ctx := &config.Context{Project: "webapp"}
	core, err := NewCore(d, ctx, settings)
	require.NoError(t, err)
	_, err = NewMonitoring(d, ctx, settings, core.MonitoringGroupName())
	require.NoError(t, err)

	var law *engine.Resource
	for _, res := range d.Resources() {
		if res.Kind == provider.KindLogAnalytics {
			law = res
		}
	}
	require.NotNil(t, law)
	assert.Equal(t, 90, law.Properties["retentionDays"])
}

func TestMonitoring_AppInsightsLinksWorkspace(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	var appi *engine.Resource
	for _, res := range d.Resources() {
		if res.Kind == provider.KindAppInsights {
			appi = res
		}
	}
	require.NotNil(t, appi)

	workspaceID, ok := appi.Properties["workspaceId"].(*engine.Output)
	require.True(t, ok, "workspaceId must stay deferred until the workspace exists")
	assert.Equal(t, "azure:OperationalInsights.Workspace.law-central-dev", workspaceID.Source())
}

func TestStackNames(t *testing.T) {
	settings, err := config.Settings("dev")
	require.NoError(t, err)

	d := engine.NewDeployment("dev", settings.Location)
	ctx := &config.Context{Project: "webapp"}

	core, err := NewCore(d, ctx, settings)
	require.NoError(t, err)
	networking, err := NewNetworking(d, ctx, settings, core.NetworkGroupName())
	require.NoError(t, err)
	security, err := NewSecurity(d, ctx, settings, core.SecurityGroupName(), "tenant-id")
	require.NoError(t, err)
	storage, err := NewStorage(d, ctx, settings, core.DataGroupName())
	require.NoError(t, err)
	monitoring, err := NewMonitoring(d, ctx, settings, core.MonitoringGroupName())
	require.NoError(t, err)

	var names []string
	for _, stack := range []Stack{core, networking, security, storage, monitoring} {
		names = append(names, stack.Name())
	}
	assert.Equal(t, []string{"core", "networking", "security", "storage", "monitoring"}, names)
}

func TestCompose_TagsCarryComponentAndPurpose(t *testing.T) {
	d, _ := composeDeployment(t, "dev")

	for _, res := range d.Resources() {
		if res.Kind != provider.KindResourceGroup {
			continue
		}
		assert.Equal(t, "dev", res.Tags["Environment"])
		assert.Equal(t, "azstack", res.Tags["ManagedBy"])
		assert.Equal(t, "webapp", res.Tags["Project"])
		assert.NotEmpty(t, res.Tags["Purpose"], "resource group %s is missing a Purpose tag", res.Name)
	}
}
