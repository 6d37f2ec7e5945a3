// Package azure materializes resource descriptions through the Azure
// Resource Manager APIs. It only issues create-or-update calls and reads
// back identifier attributes; diffing, retries, and state belong to ARM.
package azure

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/azstack-io/azstack/pkg/provider"
)

type Provider struct {
	subscriptionID string
	tenantID       string
	credential     azcore.TokenCredential

	resourceGroups *armresources.ResourceGroupsClient
	generic        *armresources.Client
	vnets          *armnetwork.VirtualNetworksClient
	securityGroups *armnetwork.SecurityGroupsClient
	vaults         *armkeyvault.VaultsClient
	identities     *armmsi.UserAssignedIdentitiesClient
}

func New() *Provider {
	return &Provider{}
}

// Configure authenticates against ARM and builds the per-service clients.
func (p *Provider) Configure(ctx context.Context, req *provider.ConfigureRequest) error {
	if req.SubscriptionID == "" {
		return errors.New("azure provider requires a subscription id")
	}
	p.subscriptionID = req.SubscriptionID
	p.tenantID = req.TenantID

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return fmt.Errorf("failed to build azure credential: %w", err)
	}
	p.credential = cred

	if p.resourceGroups, err = armresources.NewResourceGroupsClient(p.subscriptionID, cred, nil); err != nil {
		return fmt.Errorf("failed to build resource groups client: %w", err)
	}
	if p.generic, err = armresources.NewClient(p.subscriptionID, cred, nil); err != nil {
		return fmt.Errorf("failed to build generic resources client: %w", err)
	}
	if p.vnets, err = armnetwork.NewVirtualNetworksClient(p.subscriptionID, cred, nil); err != nil {
		return fmt.Errorf("failed to build virtual networks client: %w", err)
	}
	if p.securityGroups, err = armnetwork.NewSecurityGroupsClient(p.subscriptionID, cred, nil); err != nil {
		return fmt.Errorf("failed to build security groups client: %w", err)
	}
	if p.vaults, err = armkeyvault.NewVaultsClient(p.subscriptionID, cred, nil); err != nil {
		return fmt.Errorf("failed to build key vaults client: %w", err)
	}
	if p.identities, err = armmsi.NewUserAssignedIdentitiesClient(p.subscriptionID, cred, nil); err != nil {
		return fmt.Errorf("failed to build managed identities client: %w", err)
	}

	return nil
}

func (p *Provider) Create(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	if p.credential == nil {
		return nil, errors.New("azure provider not configured")
	}

	switch req.Kind {
	case provider.KindResourceGroup:
		return p.createResourceGroup(ctx, req)
	case provider.KindVirtualNetwork:
		return p.createVirtualNetwork(ctx, req)
	case provider.KindNetworkSecurityGroup:
		return p.createSecurityGroup(ctx, req)
	case provider.KindKeyVault:
		return p.createKeyVault(ctx, req)
	case provider.KindManagedIdentity:
		return p.createManagedIdentity(ctx, req)
	case provider.KindStorageAccount:
		return p.createStorageAccount(ctx, req)
	case provider.KindBlobContainer:
		return p.createBlobContainer(ctx, req)
	case provider.KindLogAnalytics:
		return p.createWorkspace(ctx, req)
	case provider.KindAppInsights:
		return p.createAppInsights(ctx, req)
	default:
		return nil, fmt.Errorf("azure provider does not support kind %s", req.Kind)
	}
}

// genericID builds an ARM resource ID for kinds handled through the generic
// resources client.
func (p *Provider) genericID(resourceGroup, providerPath, name string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s",
		p.subscriptionID, resourceGroup, providerPath, name)
}

func armTags(tags map[string]string) map[string]*string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]*string, len(tags))
	for k, v := range tags {
		v := v
		out[k] = &v
	}
	return out
}

// Property accessors. Stacks build property maps with plain Go values; after
// engine resolution the values are strings, bools, ints, []any, and nested
// map[string]any.

func strProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(props map[string]any, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}

func intProp(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func floatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func strSliceProp(props map[string]any, key string) []string {
	switch v := props[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func mapSliceProp(props map[string]any, key string) []map[string]any {
	items, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// propsMap coerces a generic ARM response's Properties field into a map.
func propsMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}
