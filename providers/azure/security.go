package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"

	"github.com/azstack-io/azstack/pkg/provider"
)

func (p *Provider) createKeyVault(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")

	tenantID := strProp(req.Properties, "tenantId")
	if tenantID == "" {
		tenantID = p.tenantID
	}

	props := &armkeyvault.VaultProperties{
		TenantID: to.Ptr(tenantID),
		SKU: &armkeyvault.SKU{
			Family: to.Ptr(armkeyvault.SKUFamilyA),
			Name:   to.Ptr(armkeyvault.SKUNameStandard),
		},
		EnableRbacAuthorization: to.Ptr(boolProp(req.Properties, "enableRbacAuthorization")),
		EnableSoftDelete:        to.Ptr(true),
	}
	if days := intProp(req.Properties, "softDeleteRetentionDays"); days > 0 {
		props.SoftDeleteRetentionInDays = to.Ptr(int32(days))
	}
	// ARM rejects an explicit false once a vault exists; only ever send true.
	if boolProp(req.Properties, "enablePurgeProtection") {
		props.EnablePurgeProtection = to.Ptr(true)
	}

	poller, err := p.vaults.BeginCreateOrUpdate(ctx, resourceGroup, req.Name, armkeyvault.VaultCreateOrUpdateParameters{
		Location:   to.Ptr(req.Location),
		Tags:       armTags(req.Tags),
		Properties: props,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault %s: %w", req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for key vault %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	if resp.Properties != nil {
		attrs["vaultUri"] = deref(resp.Properties.VaultURI)
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}

func (p *Provider) createManagedIdentity(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")

	resp, err := p.identities.CreateOrUpdate(ctx, resourceGroup, req.Name, armmsi.Identity{
		Location: to.Ptr(req.Location),
		Tags:     armTags(req.Tags),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create managed identity %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	if resp.Properties != nil {
		attrs["principalId"] = deref(resp.Properties.PrincipalID)
		attrs["clientId"] = deref(resp.Properties.ClientID)
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}
