package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/azstack-io/azstack/pkg/provider"
)

// Storage has no dedicated client in this module; accounts and containers go
// through the generic ARM resources client with a pinned API version.
const storageAPIVersion = "2023-01-01"

func (p *Provider) createStorageAccount(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")
	resourceID := p.genericID(resourceGroup, "Microsoft.Storage/storageAccounts", req.Name)

	sku := strProp(req.Properties, "sku")
	if sku == "" {
		sku = "Standard_LRS"
	}
	accessTier := strProp(req.Properties, "accessTier")
	if accessTier == "" {
		accessTier = "Hot"
	}

	poller, err := p.generic.BeginCreateOrUpdateByID(ctx, resourceID, storageAPIVersion, armresources.GenericResource{
		Location: to.Ptr(req.Location),
		Tags:     armTags(req.Tags),
		Kind:     to.Ptr("StorageV2"),
		SKU:      &armresources.SKU{Name: to.Ptr(sku)},
		Properties: map[string]any{
			"accessTier":               accessTier,
			"supportsHttpsTrafficOnly": true,
			"minimumTlsVersion":        "TLS1_2",
			"allowBlobPublicAccess":    false,
			"isHnsEnabled":             boolProp(req.Properties, "enableHierarchicalNamespace"),
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage account %s: %w", req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for storage account %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	if endpoints := propsMap(propsMap(resp.Properties)["primaryEndpoints"]); endpoints != nil {
		if blob, ok := endpoints["blob"].(string); ok {
			attrs["primaryBlobEndpoint"] = blob
		}
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}

func (p *Provider) createBlobContainer(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")
	accountName := strProp(req.Properties, "accountName")
	resourceID := p.genericID(resourceGroup, "Microsoft.Storage/storageAccounts",
		fmt.Sprintf("%s/blobServices/default/containers/%s", accountName, req.Name))

	poller, err := p.generic.BeginCreateOrUpdateByID(ctx, resourceID, storageAPIVersion, armresources.GenericResource{
		Properties: map[string]any{
			"publicAccess": "None",
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob container %s/%s: %w", accountName, req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for blob container %s/%s: %w", accountName, req.Name, err)
	}

	return &provider.CreateResponse{Attributes: map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}}, nil
}
