// Package stacks composes the per-domain infrastructure stacks. Core builds
// the five resource groups everything else lives in; Networking, Security,
// Storage, and Monitoring each depend on exactly one of those groups and are
// independent of each other. The build order is a strict DAG: a stack only
// ever receives deferred handles from stacks constructed before it.
package stacks

import (
	"fmt"
	"sort"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/logging"
)

// Stack is one named group of related resources built and exported together.
type Stack interface {
	Name() string
	Outputs() map[string]*engine.Output
}

// Compose builds every stack in dependency order and publishes all outputs
// on the deployment. Core always comes first; the four domain stacks only
// consume Core's resource-group handles.
func Compose(d *engine.Deployment, ctx *config.Context, settings config.EnvironmentSettings) error {
	d.Export("environment", settings.Name)
	d.Export("location", d.Location)

	core, err := NewCore(d, ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to build core stack: %w", err)
	}

	networking, err := NewNetworking(d, ctx, settings, core.NetworkGroupName())
	if err != nil {
		return fmt.Errorf("failed to build networking stack: %w", err)
	}

	security, err := NewSecurity(d, ctx, settings, core.SecurityGroupName(), ctx.TenantID)
	if err != nil {
		return fmt.Errorf("failed to build security stack: %w", err)
	}

	storage, err := NewStorage(d, ctx, settings, core.DataGroupName())
	if err != nil {
		return fmt.Errorf("failed to build storage stack: %w", err)
	}

	monitoring, err := NewMonitoring(d, ctx, settings, core.MonitoringGroupName())
	if err != nil {
		return fmt.Errorf("failed to build monitoring stack: %w", err)
	}

	for _, stack := range []Stack{core, networking, security, storage, monitoring} {
		outputs := stack.Outputs()
		names := make([]string, 0, len(outputs))
		for name := range outputs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d.Export(name, outputs[name])
		}
		logging.Debug("composed stack", "stack", stack.Name(), "outputs", len(outputs))
	}

	return nil
}
