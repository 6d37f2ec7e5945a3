package engine

import "fmt"

// Resource is a single resource description registered with a deployment.
// Property values may be plain values or *Output handles; handles are
// resolved just before the resource is materialized.
type Resource struct {
	Kind       string
	Name       string
	Location   string
	Tags       map[string]string
	Properties map[string]any
	DependsOn  []string
}

// Addr returns the resource address (kind.name).
func (r *Resource) Addr() string {
	return fmt.Sprintf("%s.%s", r.Kind, r.Name)
}

// Handle refers to a registered resource and hands out deferred outputs for
// its attributes.
type Handle struct {
	d    *Deployment
	addr string
}

// Address returns the address of the underlying resource.
func (h *Handle) Address() string {
	return h.addr
}

// Output returns a deferred handle for one attribute of the resource. The
// value is unknown until the resource has been materialized.
func (h *Handle) Output(attr string) *Output {
	return &Output{addr: h.addr, attr: attr}
}
