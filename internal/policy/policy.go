// Package policy defines the validation boundary. During a preview run the
// engine streams every resource description through the registered
// validators before anything is materialized. Rule content lives outside
// this module; the package only carries the stream contract plus a recording
// validator for tests.
package policy

import "sync"

// ResourceDescription is one element of the dry-run stream: the resource
// kind and its fully resolved property map.
type ResourceDescription struct {
	Kind       string
	Name       string
	Properties map[string]any
}

// Violation reports a policy failure for one resource.
type Violation struct {
	Kind    string
	Name    string
	Rule    string
	Message string
}

// Validator consumes resource descriptions and reports violations.
type Validator interface {
	Validate(desc ResourceDescription) []Violation
}

// Recorder is a Validator that records every description it sees and never
// reports a violation. Tests use it to assert on the stream itself, in
// particular the order resources are described in.
type Recorder struct {
	mu   sync.Mutex
	seen []ResourceDescription
}

func (r *Recorder) Validate(desc ResourceDescription) []Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, desc)
	return nil
}

// Seen returns the recorded descriptions in arrival order.
func (r *Recorder) Seen() []ResourceDescription {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ResourceDescription, len(r.seen))
	copy(out, r.seen)
	return out
}
