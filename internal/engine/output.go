package engine

// Output is a deferred identifier handle: a value produced by a resource
// that has not been materialized yet. Stacks pass outputs across stack
// boundaries instead of eager strings; the engine resolves them once the
// producing resource exists. Transformations on an unresolved value are
// expressed with Apply, which stays deferred.
type Output struct {
	addr   string // producing resource address; set on root outputs only
	attr   string
	parent *Output
	fn     func(any) (any, error)
}

// Apply chains a transformation onto the handle. The function runs at
// resolution time, after the producing resource has been materialized, so
// derived values (one subnet ID out of a vnet, a URI built from a name)
// remain deferred end to end.
func (o *Output) Apply(fn func(v any) (any, error)) *Output {
	return &Output{parent: o, fn: fn}
}

// root walks the Apply chain back to the producing resource's output.
func (o *Output) root() *Output {
	r := o
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Source returns the address of the resource that produces this value.
func (o *Output) Source() string {
	return o.root().addr
}
