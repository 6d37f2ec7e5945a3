// Package noop is a provider that materializes nothing. It fabricates
// deterministic identifier attributes from the resource kind and name, which
// makes it the backend for previews, the policy stream, and tests: two runs
// over the same descriptions always produce the same identifiers.
package noop

import (
	"context"
	"fmt"

	"github.com/azstack-io/azstack/pkg/provider"
)

type Provider struct {
	subscriptionID string
}

func New() *Provider {
	return &Provider{subscriptionID: "00000000-0000-0000-0000-000000000000"}
}

func (p *Provider) Configure(ctx context.Context, req *provider.ConfigureRequest) error {
	if req.SubscriptionID != "" {
		p.subscriptionID = req.SubscriptionID
	}
	return nil
}

func (p *Provider) Create(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	attrs := map[string]any{
		"id":   p.resourceID(req),
		"name": req.Name,
	}

	switch req.Kind {
	case provider.KindKeyVault:
		attrs["vaultUri"] = fmt.Sprintf("https://%s.vault.azure.net/", req.Name)
	case provider.KindManagedIdentity:
		attrs["principalId"] = fmt.Sprintf("principal-%s", req.Name)
		attrs["clientId"] = fmt.Sprintf("client-%s", req.Name)
	case provider.KindStorageAccount:
		attrs["primaryBlobEndpoint"] = fmt.Sprintf("https://%s.blob.core.windows.net/", req.Name)
	case provider.KindLogAnalytics:
		attrs["customerId"] = fmt.Sprintf("workspace-%s", req.Name)
	case provider.KindAppInsights:
		attrs["instrumentationKey"] = fmt.Sprintf("ikey-%s", req.Name)
		attrs["connectionString"] = fmt.Sprintf("InstrumentationKey=ikey-%s", req.Name)
	}

	return &provider.CreateResponse{Attributes: attrs}, nil
}

// resourceID builds an ARM-shaped identifier so downstream transforms that
// append path segments behave the same as against the real provider.
func (p *Provider) resourceID(req *provider.CreateRequest) string {
	if req.Kind == provider.KindResourceGroup {
		return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", p.subscriptionID, req.Name)
	}

	group := "noop"
	if rg, ok := req.Properties["resourceGroupName"].(string); ok && rg != "" {
		group = rg
	}
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s",
		p.subscriptionID, group, req.Kind, req.Name)
}
