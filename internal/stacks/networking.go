package stacks

import (
	"fmt"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/naming"
	"github.com/azstack-io/azstack/internal/tags"
	"github.com/azstack-io/azstack/pkg/provider"
)

// subnetTiers fixes the subnet layout and the service endpoints per tier.
// The data subnet disables private endpoint policies so private endpoints
// can land there.
var subnetTiers = []struct {
	logical          string
	serviceEndpoints []string
	peNetworkPolicy  string
}{
	{"gateway", []string{"Microsoft.KeyVault"}, "Enabled"},
	{"web", []string{"Microsoft.KeyVault", "Microsoft.Storage"}, "Enabled"},
	{"app", []string{"Microsoft.KeyVault", "Microsoft.Storage", "Microsoft.Sql"}, "Enabled"},
	{"data", []string{"Microsoft.KeyVault", "Microsoft.Storage"}, "Disabled"},
	{"management", []string{"Microsoft.KeyVault"}, "Enabled"},
}

// SecurityRule is one NSG rule in the shape the providers consume.
type SecurityRule struct {
	Name                     string
	Priority                 int
	Direction                string
	Access                   string
	Protocol                 string
	SourceAddressPrefix      string
	SourcePortRange          string
	DestinationAddressPrefix string
	DestinationPortRange     string
	Description              string
}

// webTierRules returns the standing rules for the web tier NSG.
func webTierRules() []SecurityRule {
	return []SecurityRule{
		{
			Name:                 "AllowHTTPS",
			Priority:             100,
			Direction:            "Inbound",
			Access:               "Allow",
			Protocol:             "Tcp",
			SourceAddressPrefix:  "Internet",
			DestinationPortRange: "443",
			Description:          "Allow HTTPS traffic from internet",
		},
		{
			Name:                 "AllowHTTP",
			Priority:             110,
			Direction:            "Inbound",
			Access:               "Allow",
			Protocol:             "Tcp",
			SourceAddressPrefix:  "Internet",
			DestinationPortRange: "80",
			Description:          "Allow HTTP traffic (for redirect to HTTPS)",
		},
	}
}

// Networking builds the main virtual network, its subnets, and the per-tier
// network security groups.
type Networking struct {
	vnet        *engine.Handle
	subnetNames map[string]string
	nsgs        map[string]*engine.Handle
}

// NewNetworking registers the network resources inside the core network
// resource group. resourceGroupName is a deferred handle produced by the
// core stack, so the engine orders the vnet after the group exists.
func NewNetworking(d *engine.Deployment, ctx *config.Context, settings config.EnvironmentSettings, resourceGroupName *engine.Output) (*Networking, error) {
	n := &Networking{
		subnetNames: make(map[string]string, len(subnetTiers)),
		nsgs:        make(map[string]*engine.Handle, 3),
	}

	defaultTags := tags.Defaults(ctx, tags.Request{Environment: settings.Name, Component: "networking"})

	var subnets []any
	for _, tier := range subnetTiers {
		prefix, ok := settings.Network.SubnetPrefixes[tier.logical]
		if !ok {
			return nil, fmt.Errorf("environment %s has no subnet prefix for tier %s", settings.Name, tier.logical)
		}

		subnetName := naming.Generate(naming.Request{
			ResourceType: "snet",
			Name:         tier.logical,
			Environment:  settings.Name,
		})
		n.subnetNames[tier.logical] = subnetName

		endpoints := make([]any, 0, len(tier.serviceEndpoints))
		for _, svc := range tier.serviceEndpoints {
			endpoints = append(endpoints, svc)
		}
		subnets = append(subnets, map[string]any{
			"name":                           subnetName,
			"addressPrefix":                  prefix,
			"serviceEndpoints":               endpoints,
			"privateEndpointNetworkPolicies": tier.peNetworkPolicy,
		})
	}

	vnetName := naming.Generate(naming.Request{
		ResourceType: "vnet",
		Name:         "main",
		Environment:  settings.Name,
	})

	addressSpace := make([]any, 0, len(settings.Network.VNetAddressSpace))
	for _, cidr := range settings.Network.VNetAddressSpace {
		addressSpace = append(addressSpace, cidr)
	}

	vnet, err := d.Register(&engine.Resource{
		Kind:     provider.KindVirtualNetwork,
		Name:     vnetName,
		Location: settings.Location,
		Tags:     tags.Merge(defaultTags, nil),
		Properties: map[string]any{
			"resourceGroupName": resourceGroupName,
			"addressSpace":      addressSpace,
			"subnets":           subnets,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register virtual network %s: %w", vnetName, err)
	}
	n.vnet = vnet

	nsgTiers := []struct {
		tier  string
		rules []SecurityRule
	}{
		{"web", webTierRules()},
		{"app", nil},
		{"data", nil},
	}
	for _, nt := range nsgTiers {
		tier, rules := nt.tier, nt.rules
		nsgName := naming.Generate(naming.Request{
			ResourceType: "nsg",
			Name:         tier,
			Environment:  settings.Name,
		})

		ruleProps := make([]any, 0, len(rules))
		for _, r := range rules {
			ruleProps = append(ruleProps, map[string]any{
				"name":                     r.Name,
				"priority":                 r.Priority,
				"direction":                r.Direction,
				"access":                   r.Access,
				"protocol":                 r.Protocol,
				"sourceAddressPrefix":      defaultRule(r.SourceAddressPrefix),
				"sourcePortRange":          defaultRule(r.SourcePortRange),
				"destinationAddressPrefix": defaultRule(r.DestinationAddressPrefix),
				"destinationPortRange":     defaultRule(r.DestinationPortRange),
				"description":              r.Description,
			})
		}

		nsg, err := d.Register(&engine.Resource{
			Kind:     provider.KindNetworkSecurityGroup,
			Name:     nsgName,
			Location: settings.Location,
			Tags:     tags.Merge(defaultTags, nil),
			Properties: map[string]any{
				"resourceGroupName": resourceGroupName,
				"securityRules":     ruleProps,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register network security group %s: %w", nsgName, err)
		}
		n.nsgs[tier] = nsg
	}

	return n, nil
}

// defaultRule substitutes the NSG wildcard for unset rule fields.
func defaultRule(v string) string {
	if v == "" {
		return "*"
	}
	return v
}

func (n *Networking) Name() string { return "networking" }

// SubnetID returns the deferred resource ID of one subnet. The subnet only
// exists inside the vnet, so the ID is derived from the vnet's deferred ID;
// the transformation stays deferred until the vnet is materialized.
func (n *Networking) SubnetID(tier string) (*engine.Output, error) {
	subnetName, ok := n.subnetNames[tier]
	if !ok {
		return nil, fmt.Errorf("unknown subnet tier %q", tier)
	}
	return n.vnet.Output("id").Apply(func(v any) (any, error) {
		id, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("vnet id is not a string: %T", v)
		}
		return fmt.Sprintf("%s/subnets/%s", id, subnetName), nil
	}), nil
}

func (n *Networking) Outputs() map[string]*engine.Output {
	return map[string]*engine.Output{
		"vnet_name":   n.vnet.Output("name"),
		"vnet_id":     n.vnet.Output("id"),
		"web_nsg_id":  n.nsgs["web"].Output("id"),
		"app_nsg_id":  n.nsgs["app"].Output("id"),
		"data_nsg_id": n.nsgs["data"].Output("id"),
	}
}
