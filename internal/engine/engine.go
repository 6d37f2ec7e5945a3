// Package engine records deferred resource descriptions and materializes
// them through a provider in dependency order. The composition itself is
// single-threaded: stacks register resources sequentially, and the engine
// derives ordering from the deferred handles threaded between them.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azstack-io/azstack/internal/logging"
	"github.com/azstack-io/azstack/internal/policy"
	"github.com/azstack-io/azstack/pkg/provider"
	"github.com/google/uuid"
)

// ErrUnresolvedOutput is returned when a value is read from a resource that
// has not been materialized yet. This is a build-order violation, a
// programming error in stack composition, and is never retried.
var ErrUnresolvedOutput = errors.New("output read before producing resource was materialized")

// Deployment is one deployment run: a registry of resource descriptions plus
// the exports published at the end.
type Deployment struct {
	Environment string
	Location    string
	Lineage     string

	resources   []*Resource
	byAddr      map[string]*Resource
	exportNames []string
	exports     map[string]any
	results     map[string]map[string]any
}

// NewDeployment creates an empty deployment for one environment.
func NewDeployment(environment, location string) *Deployment {
	return &Deployment{
		Environment: environment,
		Location:    location,
		Lineage:     uuid.NewString(),
		byAddr:      make(map[string]*Resource),
		exports:     make(map[string]any),
		results:     make(map[string]map[string]any),
	}
}

// Register adds a resource description and returns a handle for its deferred
// outputs. Registering two resources at the same address is an error.
func (d *Deployment) Register(res *Resource) (*Handle, error) {
	addr := res.Addr()
	if _, exists := d.byAddr[addr]; exists {
		return nil, fmt.Errorf("resource %s registered twice", addr)
	}
	if res.Location == "" {
		res.Location = d.Location
	}
	d.resources = append(d.resources, res)
	d.byAddr[addr] = res
	return &Handle{d: d, addr: addr}, nil
}

// Export publishes a named value. The value may be a deferred handle; it is
// resolved when the run finishes.
func (d *Deployment) Export(name string, value any) {
	if _, exists := d.exports[name]; !exists {
		d.exportNames = append(d.exportNames, name)
	}
	d.exports[name] = value
}

// Resources returns the registered descriptions in registration order.
func (d *Deployment) Resources() []*Resource {
	return d.resources
}

// Event reports progress for one resource during a run.
type Event struct {
	Address  string
	Kind     string
	Status   string // "started", "completed", "failed"
	Duration time.Duration
	Err      error
}

// EventCallback is invoked for each event if set.
type EventCallback func(Event)

// RunOptions configures one materialization pass.
type RunOptions struct {
	Provider  provider.Provider
	Validator policy.Validator // optional; receives the description stream
	Callback  EventCallback
}

// Result is the outcome of a completed run.
type Result struct {
	Lineage    string         // identifies the run in logs and output
	Order      []string       // materialization order
	Exports    map[string]any // fully resolved
	Violations []policy.Violation
}

// Run materializes every registered resource in dependency order. The first
// failure aborts the run; resources already materialized stay as they are,
// and a re-run converges because naming is deterministic.
func (d *Deployment) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Provider == nil {
		return nil, errors.New("run requires a provider")
	}

	dag, err := BuildDAG(d.resources)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	logging.Info("starting run",
		"lineage", d.Lineage,
		"environment", d.Environment,
		"resources", len(d.resources))

	emit := func(ev Event) {
		if opts.Callback != nil {
			opts.Callback(ev)
		}
	}

	result := &Result{Lineage: d.Lineage}
	for _, addr := range dag.CreationOrder() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled: %w", err)
		}

		res := d.byAddr[addr]
		props, err := d.resolveMap(res.Properties)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve properties for %s: %w", addr, err)
		}

		if opts.Validator != nil {
			vs := opts.Validator.Validate(policy.ResourceDescription{
				Kind:       res.Kind,
				Name:       res.Name,
				Properties: props,
			})
			result.Violations = append(result.Violations, vs...)
		}

		start := time.Now()
		emit(Event{Address: addr, Kind: res.Kind, Status: "started"})
		logging.Debug("materializing resource", "address", addr, "kind", res.Kind)

		resp, err := opts.Provider.Create(ctx, &provider.CreateRequest{
			Kind:       res.Kind,
			Name:       res.Name,
			Location:   res.Location,
			Tags:       res.Tags,
			Properties: props,
		})
		if err != nil {
			emit(Event{Address: addr, Kind: res.Kind, Status: "failed", Duration: time.Since(start), Err: err})
			return nil, fmt.Errorf("failed to create %s: %w", addr, err)
		}

		d.results[addr] = resp.Attributes
		result.Order = append(result.Order, addr)
		emit(Event{Address: addr, Kind: res.Kind, Status: "completed", Duration: time.Since(start)})
	}

	exports := make(map[string]any, len(d.exports))
	for _, name := range d.exportNames {
		v, err := d.resolveValue(d.exports[name])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve export %q: %w", name, err)
		}
		exports[name] = v
	}
	result.Exports = exports

	return result, nil
}

// ExportNames returns the export names in publication order.
func (d *Deployment) ExportNames() []string {
	names := make([]string, len(d.exportNames))
	copy(names, d.exportNames)
	return names
}

// resolveMap resolves every deferred handle in a property map.
func (d *Deployment) resolveMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		rv, err := d.resolveValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func (d *Deployment) resolveValue(v any) (any, error) {
	switch val := v.(type) {
	case *Output:
		return d.resolveOutput(val)
	case map[string]any:
		return d.resolveMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			rv, err := d.resolveValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return val, nil
	}
}

func (d *Deployment) resolveOutput(o *Output) (any, error) {
	if o.parent != nil {
		base, err := d.resolveOutput(o.parent)
		if err != nil {
			return nil, err
		}
		return o.fn(base)
	}

	attrs, ok := d.results[o.addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedOutput, o.addr)
	}
	v, ok := attrs[o.attr]
	if !ok {
		return nil, fmt.Errorf("resource %s has no attribute %q", o.addr, o.attr)
	}
	return v, nil
}
