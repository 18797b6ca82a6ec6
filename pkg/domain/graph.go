package domain

import "slices"

// Graph is an immutable-by-convention value threaded through every engine call.
// Functions that change a graph return a new value and leave their input untouched.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IndexOf returns the position of node id, or -1.
func (g Graph) IndexOf(id string) int {
	return slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

// Node looks up a node by ID.
func (g Graph) Node(id string) (Node, bool) {
	if i := g.IndexOf(id); i >= 0 {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// EdgeIndex returns the position of edge id, or -1.
func (g Graph) EdgeIndex(id string) int {
	return slices.IndexFunc(g.Edges, func(e Edge) bool { return e.ID == id })
}

// HasEdge reports whether an edge with the given ID exists.
func (g Graph) HasEdge(id string) bool {
	return g.EdgeIndex(id) >= 0
}

// Incoming returns the edges whose target is id.
func (g Graph) Incoming(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing returns the edges whose source is id.
func (g Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// OfType returns the nodes of type t in graph order.
func (g Graph) OfType(t NodeType) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: slices.Clone(g.Edges),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.Clone()
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return out
}
