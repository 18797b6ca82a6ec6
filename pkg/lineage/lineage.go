// Package lineage computes the connected subgraph around a selected node,
// following edges in both directions. Hosts use it to highlight everything
// that feeds into or descends from the selection.
package lineage

import (
	"encoding/json"
	"sort"

	"github.com/aretw0/lattice/pkg/domain"
)

// Result is the set of highlighted node and edge IDs.
type Result struct {
	NodeIDs map[string]bool
	EdgeIDs map[string]bool
}

// MarshalJSON encodes the sets as sorted arrays.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NodeIDs []string `json:"nodeIds"`
		EdgeIDs []string `json:"edgeIds"`
	}{r.Nodes(), r.Edges()})
}

// Empty reports whether nothing is highlighted.
func (r Result) Empty() bool {
	return len(r.NodeIDs) == 0
}

// Nodes returns the highlighted node IDs in sorted order.
func (r Result) Nodes() []string {
	return sortedKeys(r.NodeIDs)
}

// Edges returns the highlighted edge IDs in sorted order.
func (r Result) Edges() []string {
	return sortedKeys(r.EdgeIDs)
}

// Trace walks edges from seed in both directions until no new node is found.
// A seed without neighbours yields an empty result, since a single
// highlighted element conveys nothing.
func Trace(edges []domain.Edge, seed string) Result {
	adj := make(map[string][]domain.Edge)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e)
		if e.Target != e.Source {
			adj[e.Target] = append(adj[e.Target], e)
		}
	}

	nodes := map[string]bool{seed: true}
	edgeIDs := map[string]bool{}
	stack := []string{seed}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, e := range adj[current] {
			edgeIDs[e.ID] = true
			next := e.Target
			if next == current {
				next = e.Source
			}
			if !nodes[next] {
				nodes[next] = true
				stack = append(stack, next)
			}
		}
	}

	if len(nodes) <= 1 {
		return Result{NodeIDs: map[string]bool{}, EdgeIDs: map[string]bool{}}
	}
	return Result{NodeIDs: nodes, EdgeIDs: edgeIDs}
}

// TraceGraph is Trace restricted to g: edges whose endpoints are not nodes
// of g are ignored, and a seed that is not in g yields an empty result.
func TraceGraph(g domain.Graph, seed string) Result {
	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}
	if !known[seed] {
		return Result{NodeIDs: map[string]bool{}, EdgeIDs: map[string]bool{}}
	}
	live := make([]domain.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if known[e.Source] && known[e.Target] {
			live = append(live, e)
		}
	}
	return Trace(live, seed)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
