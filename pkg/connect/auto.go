package connect

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// AutoConnect synthesizes the edges a freshly added node should receive.
// newNode must already be part of g. Every returned edge passes Allowed and
// none duplicates an existing ordered pair. The graph is not modified.
func AutoConnect(g domain.Graph, newNode domain.Node) []domain.Edge {
	var candidates [][2]domain.Node
	to := func(targets ...domain.Node) {
		for _, t := range targets {
			candidates = append(candidates, [2]domain.Node{newNode, t})
		}
	}
	from := func(sources ...domain.Node) {
		for _, s := range sources {
			candidates = append(candidates, [2]domain.Node{s, newNode})
		}
	}

	switch {
	case newNode.Type == domain.NodeModel:
		for _, n := range g.Nodes {
			if isConfigurable(n.Type) && !hasModel(g, n.ID) {
				to(n)
			}
		}
	case newNode.Type.IsSection(), newNode.Type == domain.NodeCritique:
		to(g.OfType(domain.NodeCompiler)...)
	case newNode.Type == domain.NodeCompiler:
		for _, n := range g.Nodes {
			if n.Type.IsSection() || n.Type == domain.NodeCritique || n.Type == domain.NodeDesignSystem {
				from(n)
			}
		}
		from(first(g, domain.NodeModel, newNode.ID)...)
	case newNode.Type == domain.NodeDesignSystem:
		to(g.OfType(domain.NodeCompiler)...)
		from(first(g, domain.NodeModel, newNode.ID)...)
	case newNode.Type == domain.NodeHypothesis:
		from(first(g, domain.NodeCompiler, newNode.ID)...)
		from(first(g, domain.NodeModel, newNode.ID)...)
	}

	var out []domain.Edge
	seen := make(map[string]bool)
	for _, c := range candidates {
		src, dst := c[0], c[1]
		id := domain.EdgeID(src.ID, dst.ID)
		if seen[id] || g.HasEdge(id) || !Allowed(src, dst) {
			continue
		}
		seen[id] = true
		out = append(out, domain.NewEdge(src, dst))
	}
	return out
}

func isConfigurable(t domain.NodeType) bool {
	return t == domain.NodeCompiler || t == domain.NodeDesignSystem || t == domain.NodeHypothesis
}

func hasModel(g domain.Graph, id string) bool {
	for _, e := range g.Incoming(id) {
		if src, ok := g.Node(e.Source); ok && src.Type == domain.NodeModel {
			return true
		}
	}
	return false
}

func first(g domain.Graph, t domain.NodeType, exclude string) []domain.Node {
	for _, n := range g.Nodes {
		if n.Type == t && n.ID != exclude {
			return []domain.Node{n}
		}
	}
	return nil
}
