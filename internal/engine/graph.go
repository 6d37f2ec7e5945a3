package engine

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when the resource graph contains a dependency cycle.
var ErrCycle = errors.New("dependency cycle detected in resource graph")

// DAG is the directed acyclic graph of resource dependencies, used to order
// materialization.
type DAG struct {
	nodes map[string]*dagNode
	addrs []string // registration order, keeps the sort deterministic
	order []string // topological order (creation order)
}

type dagNode struct {
	addr     string
	edges    []string // resources this node depends on
	revEdges []string // resources that depend on this node
}

// BuildDAG constructs the dependency graph from resource descriptions. It
// resolves both explicit DependsOn entries and implicit dependencies formed
// by *Output handles embedded in property maps.
func BuildDAG(resources []*Resource) (*DAG, error) {
	dag := &DAG{nodes: make(map[string]*dagNode)}

	for _, res := range resources {
		addr := res.Addr()
		dag.nodes[addr] = &dagNode{addr: addr}
		dag.addrs = append(dag.addrs, addr)
	}

	for _, res := range resources {
		addr := res.Addr()
		node := dag.nodes[addr]

		for _, dep := range res.DependsOn {
			if _, ok := dag.nodes[dep]; !ok {
				return nil, fmt.Errorf("resource %s depends on unknown resource %s", addr, dep)
			}
			node.edges = append(node.edges, dep)
		}

		for _, dep := range extractOutputRefs(res.Properties) {
			if _, ok := dag.nodes[dep]; !ok {
				return nil, fmt.Errorf("resource %s references output of unknown resource %s", addr, dep)
			}
			node.edges = append(node.edges, dep)
		}
	}

	for _, addr := range dag.addrs {
		for _, dep := range dag.nodes[addr].edges {
			dag.nodes[dep].revEdges = append(dag.nodes[dep].revEdges, addr)
		}
	}

	order, err := dag.topoSort()
	if err != nil {
		return nil, err
	}
	dag.order = order

	return dag, nil
}

// CreationOrder returns addresses in dependency-respecting creation order.
func (d *DAG) CreationOrder() []string {
	return d.order
}

// Dependencies returns the direct dependencies of an address.
func (d *DAG) Dependencies(addr string) []string {
	if node, ok := d.nodes[addr]; ok {
		return node.edges
	}
	return nil
}

// topoSort performs Kahn's algorithm. Nodes are seeded and visited in
// registration order so the result is stable across runs.
func (d *DAG) topoSort() ([]string, error) {
	inDegree := make(map[string]int, len(d.nodes))
	for _, addr := range d.addrs {
		inDegree[addr] = len(d.nodes[addr].edges)
	}

	var queue []string
	for _, addr := range d.addrs {
		if inDegree[addr] == 0 {
			queue = append(queue, addr)
		}
	}

	var sorted []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, dependent := range d.nodes[node].revEdges {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(d.nodes) {
		return nil, ErrCycle
	}

	return sorted, nil
}

// extractOutputRefs walks a property value and collects the addresses of
// every resource whose deferred output appears in it.
func extractOutputRefs(v any) []string {
	var refs []string
	switch val := v.(type) {
	case *Output:
		if addr := val.Source(); addr != "" {
			refs = append(refs, addr)
		}
	case map[string]any:
		for _, v := range val {
			refs = append(refs, extractOutputRefs(v)...)
		}
	case []any:
		for _, v := range val {
			refs = append(refs, extractOutputRefs(v)...)
		}
	}
	return refs
}
