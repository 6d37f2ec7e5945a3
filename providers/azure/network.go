package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	"github.com/azstack-io/azstack/pkg/provider"
)

func (p *Provider) createVirtualNetwork(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")

	var prefixes []*string
	for _, cidr := range strSliceProp(req.Properties, "addressSpace") {
		prefixes = append(prefixes, to.Ptr(cidr))
	}

	var subnets []*armnetwork.Subnet
	for _, s := range mapSliceProp(req.Properties, "subnets") {
		subnet := &armnetwork.Subnet{
			Name: to.Ptr(strProp(s, "name")),
			Properties: &armnetwork.SubnetPropertiesFormat{
				AddressPrefix: to.Ptr(strProp(s, "addressPrefix")),
			},
		}
		for _, svc := range strSliceProp(s, "serviceEndpoints") {
			subnet.Properties.ServiceEndpoints = append(subnet.Properties.ServiceEndpoints,
				&armnetwork.ServiceEndpointPropertiesFormat{Service: to.Ptr(svc)})
		}
		if policies := strProp(s, "privateEndpointNetworkPolicies"); policies != "" {
			subnet.Properties.PrivateEndpointNetworkPolicies =
				to.Ptr(armnetwork.VirtualNetworkPrivateEndpointNetworkPolicies(policies))
		}
		subnets = append(subnets, subnet)
	}

	poller, err := p.vnets.BeginCreateOrUpdate(ctx, resourceGroup, req.Name, armnetwork.VirtualNetwork{
		Location: to.Ptr(req.Location),
		Tags:     armTags(req.Tags),
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{AddressPrefixes: prefixes},
			Subnets:      subnets,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual network %s: %w", req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for virtual network %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}

func (p *Provider) createSecurityGroup(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResponse, error) {
	resourceGroup := strProp(req.Properties, "resourceGroupName")

	var rules []*armnetwork.SecurityRule
	for _, r := range mapSliceProp(req.Properties, "securityRules") {
		rule := &armnetwork.SecurityRule{
			Name: to.Ptr(strProp(r, "name")),
			Properties: &armnetwork.SecurityRulePropertiesFormat{
				Priority:                 to.Ptr(int32(intProp(r, "priority"))),
				Direction:                to.Ptr(armnetwork.SecurityRuleDirection(strProp(r, "direction"))),
				Access:                   to.Ptr(armnetwork.SecurityRuleAccess(strProp(r, "access"))),
				Protocol:                 to.Ptr(armnetwork.SecurityRuleProtocol(strProp(r, "protocol"))),
				SourceAddressPrefix:      to.Ptr(strProp(r, "sourceAddressPrefix")),
				SourcePortRange:          to.Ptr(strProp(r, "sourcePortRange")),
				DestinationAddressPrefix: to.Ptr(strProp(r, "destinationAddressPrefix")),
				DestinationPortRange:     to.Ptr(strProp(r, "destinationPortRange")),
			},
		}
		if desc := strProp(r, "description"); desc != "" {
			rule.Properties.Description = to.Ptr(desc)
		}
		rules = append(rules, rule)
	}

	poller, err := p.securityGroups.BeginCreateOrUpdate(ctx, resourceGroup, req.Name, armnetwork.SecurityGroup{
		Location: to.Ptr(req.Location),
		Tags:     armTags(req.Tags),
		Properties: &armnetwork.SecurityGroupPropertiesFormat{
			SecurityRules: rules,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create network security group %s: %w", req.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for network security group %s: %w", req.Name, err)
	}

	attrs := map[string]any{
		"id":   deref(resp.ID),
		"name": deref(resp.Name),
	}
	return &provider.CreateResponse{Attributes: attrs}, nil
}
