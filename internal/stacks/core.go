package stacks

import (
	"fmt"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/naming"
	"github.com/azstack-io/azstack/internal/tags"
	"github.com/azstack-io/azstack/pkg/provider"
)

// coreGroups lists the resource groups the core stack owns, with the purpose
// tag each one carries.
var coreGroups = []struct {
	logical string
	purpose string
}{
	{"app", "Application Resources"},
	{"network", "Networking Resources"},
	{"security", "Security Resources"},
	{"monitoring", "Monitoring and Observability"},
	{"data", "Data and Storage Resources"},
}

// Core is the foundation stack: the resource groups every other stack
// deploys into.
type Core struct {
	groups map[string]*engine.Handle
}

// NewCore registers the five standard resource groups for the environment.
func NewCore(d *engine.Deployment, ctx *config.Context, settings config.EnvironmentSettings) (*Core, error) {
	c := &Core{
		groups: make(map[string]*engine.Handle, len(coreGroups)),
	}

	for _, g := range coreGroups {
		name := naming.Generate(naming.Request{
			ResourceType: "rg",
			Name:         g.logical,
			Environment:  settings.Name,
		})

		handle, err := d.Register(&engine.Resource{
			Kind:     provider.KindResourceGroup,
			Name:     name,
			Location: settings.Location,
			Tags: tags.Merge(
				tags.Defaults(ctx, tags.Request{Environment: settings.Name, Component: g.logical}),
				map[string]string{"Purpose": g.purpose},
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register resource group %s: %w", name, err)
		}
		c.groups[g.logical] = handle
	}

	return c, nil
}

func (c *Core) Name() string { return "core" }

// GroupName returns the deferred name of one of the core resource groups.
func (c *Core) GroupName(logical string) *engine.Output {
	return c.groups[logical].Output("name")
}

func (c *Core) AppGroupName() *engine.Output        { return c.GroupName("app") }
func (c *Core) NetworkGroupName() *engine.Output    { return c.GroupName("network") }
func (c *Core) SecurityGroupName() *engine.Output   { return c.GroupName("security") }
func (c *Core) MonitoringGroupName() *engine.Output { return c.GroupName("monitoring") }
func (c *Core) DataGroupName() *engine.Output       { return c.GroupName("data") }

func (c *Core) Outputs() map[string]*engine.Output {
	return map[string]*engine.Output{
		"app_resource_group_name":        c.AppGroupName(),
		"network_resource_group_name":    c.NetworkGroupName(),
		"security_resource_group_name":   c.SecurityGroupName(),
		"monitoring_resource_group_name": c.MonitoringGroupName(),
		"data_resource_group_name":       c.DataGroupName(),
	}
}
