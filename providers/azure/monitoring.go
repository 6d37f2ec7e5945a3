package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/azstack-io/azstack/pkg/provider"
)

const (
	workspaceAPIVersion   = "2022-10-01"
	appInsightsAPIVersion = "2020-02-02"
)

func (p *Provider) createWorkspace(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")
	resourceID := p.genericID(resourceGroup, "Microsoft.OperationalInsights/workspaces", req.Name)

	props := map[string]any{
		"sku":             map[string]any{"name": "PerGB2018"},
		"retentionInDays": intProp(req.Properties, "retentionDays"),
	}
	if quota := floatProp(req.Properties, "dailyQuotaGb"); quota > 0 {
		props["workspaceCapping"] = map[string]any{"dailyQuotaGb": quota}
	}

	poller, err := p.generic.BeginCreateOrUpdateByID(ctx, resourceID, workspaceAPIVersion, armresources.GenericResource{
		Location:   to.Ptr(req.Location),
		Tags:       armTags(req.Tags),
		Properties: props,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create log analytics workspace %s: %w", req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for log analytics workspace %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	if customerID, ok := propsMap(resp.Properties)["customerId"].(string); ok {
		attrs["customerId"] = customerID
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}

func (p *Provider) createAppInsights(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")
	resourceID := p.genericID(resourceGroup, "Microsoft.Insights/components", req.Name)

	applicationType := strProp(req.Properties, "applicationType")
	if applicationType == "" {
		applicationType = "web"
	}

	poller, err := p.generic.BeginCreateOrUpdateByID(ctx, resourceID, appInsightsAPIVersion, armresources.GenericResource{
		Location: to.Ptr(req.Location),
		Tags:     armTags(req.Tags),
		Kind:     to.Ptr(applicationType),
		Properties: map[string]any{
			"Application_Type":    applicationType,
			"WorkspaceResourceId": strProp(req.Properties, "workspaceId"),
			"DisableLocalAuth":    true,
			"DisableIpMasking":    false,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create application insights %s: %w", req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for application insights %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	responseProps := propsMap(resp.Properties)
	if key, ok := responseProps["InstrumentationKey"].(string); ok {
		attrs["instrumentationKey"] = key
	}
	if cs, ok := responseProps["ConnectionString"].(string); ok {
		attrs["connectionString"] = cs
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}
