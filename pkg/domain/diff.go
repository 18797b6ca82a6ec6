package domain

import (
	"reflect"
)

// GraphDiff represents the changes between two graphs.
// It is designed to be serialized to JSON for partial updates on the client.
type GraphDiff struct {
	// AddedNodes contains nodes present only in the new graph.
	AddedNodes []Node `json:"added_nodes,omitempty"`

	// RemovedNodes contains the IDs of nodes present only in the old graph.
	RemovedNodes []string `json:"removed_nodes,omitempty"`

	// ChangedNodes contains nodes whose position, size or payload differ.
	ChangedNodes []Node `json:"changed_nodes,omitempty"`

	AddedEdges   []Edge   `json:"added_edges,omitempty"`
	RemovedEdges []string `json:"removed_edges,omitempty"`

	// ChangedEdges contains edges whose status differs.
	ChangedEdges []Edge `json:"changed_edges,omitempty"`
}

// Diff calculates the difference between oldGraph and newGraph.
// Returns nil when the graphs are equivalent.
func Diff(oldGraph, newGraph Graph) *GraphDiff {
	diff := &GraphDiff{}

	oldNodes := make(map[string]Node, len(oldGraph.Nodes))
	for _, n := range oldGraph.Nodes {
		oldNodes[n.ID] = n
	}
	seen := make(map[string]bool, len(newGraph.Nodes))
	for _, n := range newGraph.Nodes {
		seen[n.ID] = true
		prev, ok := oldNodes[n.ID]
		switch {
		case !ok:
			diff.AddedNodes = append(diff.AddedNodes, n)
		case !reflect.DeepEqual(prev, n):
			diff.ChangedNodes = append(diff.ChangedNodes, n)
		}
	}
	for _, n := range oldGraph.Nodes {
		if !seen[n.ID] {
			diff.RemovedNodes = append(diff.RemovedNodes, n.ID)
		}
	}

	oldEdges := make(map[string]Edge, len(oldGraph.Edges))
	for _, e := range oldGraph.Edges {
		oldEdges[e.ID] = e
	}
	seenEdges := make(map[string]bool, len(newGraph.Edges))
	for _, e := range newGraph.Edges {
		seenEdges[e.ID] = true
		prev, ok := oldEdges[e.ID]
		switch {
		case !ok:
			diff.AddedEdges = append(diff.AddedEdges, e)
		case prev != e:
			diff.ChangedEdges = append(diff.ChangedEdges, e)
		}
	}
	for _, e := range oldGraph.Edges {
		if !seenEdges[e.ID] {
			diff.RemovedEdges = append(diff.RemovedEdges, e.ID)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *GraphDiff) IsEmpty() bool {
	return len(d.AddedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.ChangedNodes) == 0 &&
		len(d.AddedEdges) == 0 &&
		len(d.RemovedEdges) == 0 &&
		len(d.ChangedEdges) == 0
}
