package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/azstack-io/azstack/pkg/provider"
)

func (p *Provider) createResourceGroup(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resp, err := p.resourceGroups.CreateOrUpdate(ctx, req.Name, armresources.ResourceGroup{
		Location: to.Ptr(req.Location),
		Tags:     armTags(req.Tags),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource group %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":       deref(resp.ID),
		"name":     deref(resp.Name),
		"location": deref(resp.Location),
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}
