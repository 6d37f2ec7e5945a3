package stacks

import (
	"fmt"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/naming"
	"github.com/azstack-io/azstack/internal/tags"
	"github.com/azstack-io/azstack/pkg/provider"
)

// prodMinLogRetentionDays is the retention floor applied in prod regardless
// of what the environment settings ask for.
const prodMinLogRetentionDays = 90

// Monitoring builds the Log Analytics workspace and the Application
// Insights component wired to it.
type Monitoring struct {
	workspace   *engine.Handle
	appInsights *engine.Handle
}

// NewMonitoring registers the central workspace and the application
// telemetry component inside the core monitoring resource group.
func NewMonitoring(d *engine.Deployment, ctx *config.Context, settings config.EnvironmentSettings, resourceGroupName *engine.Output) (*Monitoring, error) {
	m := &Monitoring{}

	defaultTags := tags.Defaults(ctx, tags.Request{Environment: settings.Name, Component: "monitoring"})

	retention := settings.Monitoring.LogRetentionDays
	if settings.Name == "prod" && retention < prodMinLogRetentionDays {
		retention = prodMinLogRetentionDays
	}

	workspaceName := naming.Generate(naming.Request{
		ResourceType: "law",
		Name:         "central",
		Environment:  settings.Name,
	})

	workspace, err := d.Register(&engine.Resource{
		Kind:     provider.KindLogAnalytics,
		Name:     workspaceName,
		Location: settings.Location,
		Tags:     tags.Merge(defaultTags, nil),
		Properties: map[string]any{
			"resourceGroupName": resourceGroupName,
			"sku":               "PerGB2018",
			"retentionDays":     retention,
			"dailyQuotaGb":      settings.Monitoring.DailyQuotaGB,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register log analytics workspace %s: %w", workspaceName, err)
	}
	m.workspace = workspace

	appInsightsName := naming.Generate(naming.Request{
		ResourceType: "appi",
		Name:         "app",
		Environment:  settings.Name,
	})

	appInsights, err := d.Register(&engine.Resource{
		Kind:     provider.KindAppInsights,
		Name:     appInsightsName,
		Location: settings.Location,
		Tags:     tags.Merge(defaultTags, nil),
		Properties: map[string]any{
			"resourceGroupName": resourceGroupName,
			"applicationType":   "web",
			"workspaceId":       workspace.Output("id"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register application insights %s: %w", appInsightsName, err)
	}
	m.appInsights = appInsights

	return m, nil
}

func (m *Monitoring) Name() string { return "monitoring" }

func (m *Monitoring) Outputs() map[string]*engine.Output {
	return map[string]*engine.Output{
		"log_analytics_workspace_name":   m.workspace.Output("name"),
		"log_analytics_workspace_id":     m.workspace.Output("customerId"),
		"app_insights_name":              m.appInsights.Output("name"),
		"app_insights_connection_string": m.appInsights.Output("connectionString"),
	}
}
