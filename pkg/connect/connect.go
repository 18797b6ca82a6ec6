package connect

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// Allowed checks a concrete node pair: the type matrix plus the strategy
// binding between hypotheses and variants.
func Allowed(source, target domain.Node) bool {
	if source.ID == target.ID {
		return false
	}
	if !IsValidConnection(source.Type, target.Type) {
		return false
	}
	if source.Type == domain.NodeHypothesis && target.Type == domain.NodeVariant {
		return source.StrategyID() == target.StrategyID()
	}
	return true
}

// Connect adds an idle edge from source to target. It returns the input graph
// and false when either node is unknown, the pair is not allowed, or the
// ordered pair is already connected.
func Connect(g domain.Graph, sourceID, targetID string) (domain.Graph, bool) {
	src, ok := g.Node(sourceID)
	if !ok {
		return g, false
	}
	dst, ok := g.Node(targetID)
	if !ok {
		return g, false
	}
	if !Allowed(src, dst) || g.HasEdge(domain.EdgeID(sourceID, targetID)) {
		return g, false
	}
	out := g.Clone()
	out.Edges = append(out.Edges, domain.NewEdge(src, dst))
	return out, true
}

// Violation is an existing edge the matrix would reject today.
type Violation struct {
	Edge   domain.Edge `json:"edge"`
	Reason string      `json:"reason"`
}

// Audit lists edges that reference missing nodes or break the matrix.
// Graphs loaded from older snapshots may carry such edges.
func Audit(g domain.Graph) []Violation {
	var out []Violation
	seen := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		src, okS := g.Node(e.Source)
		dst, okT := g.Node(e.Target)
		key := [2]string{e.Source, e.Target}
		switch {
		case !okS || !okT:
			out = append(out, Violation{Edge: e, Reason: "dangling endpoint"})
		case seen[key]:
			out = append(out, Violation{Edge: e, Reason: "duplicate ordered pair"})
		case !IsValidConnection(src.Type, dst.Type):
			out = append(out, Violation{Edge: e, Reason: string(src.Type) + " cannot feed " + string(dst.Type)})
		case !Allowed(src, dst):
			out = append(out, Violation{Edge: e, Reason: "strategy mismatch"})
		}
		seen[key] = true
	}
	return out
}
