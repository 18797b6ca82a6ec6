package canvas

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/layout"
	"github.com/aretw0/lattice/pkg/schema"
)

// NodeSpec describes a node to add.
type NodeSpec struct {
	ID   string
	Type domain.NodeType
	// Position is optional. Without it the node is placed in its role's column.
	Position *domain.Position
	// Data is optional. Without it the node starts with the empty payload of its type.
	Data domain.Payload
	// AutoConnect wires the node to compatible neighbours.
	AutoConnect bool
}

// AddNode appends a node described by spec. Section types are singletons.
func AddNode(g domain.Graph, spec NodeSpec, opts layout.Options) (domain.Graph, domain.Node, error) {
	if !spec.Type.Known() {
		return g, domain.Node{}, fmt.Errorf("%w: %q", domain.ErrUnknownNodeType, spec.Type)
	}
	if spec.ID == "" {
		return g, domain.Node{}, fmt.Errorf("node id is required")
	}
	if g.IndexOf(spec.ID) >= 0 {
		return g, domain.Node{}, fmt.Errorf("%q: %w", spec.ID, domain.ErrNodeExists)
	}
	if spec.Data != nil && !domain.PayloadFits(spec.Type, spec.Data) {
		return g, domain.Node{}, fmt.Errorf("%s with %T: %w", spec.Type, spec.Data, domain.ErrPayloadMismatch)
	}
	if spec.Type.IsSection() && len(g.OfType(spec.Type)) > 0 {
		return g, domain.Node{}, fmt.Errorf("%s: %w", spec.Type, domain.ErrSingletonExists)
	}

	node := domain.Node{ID: spec.ID, Type: spec.Type, Data: spec.Data}
	if node.Data == nil {
		node.Data = domain.NewPayload(spec.Type)
	}
	if spec.Position != nil {
		node.Position = *spec.Position
	} else {
		node.Position = layout.Place(g.Nodes, spec.Type, opts)
	}

	out := g.Clone()
	out.Nodes = append(out.Nodes, node)
	if spec.AutoConnect {
		out.Edges = append(out.Edges, connect.AutoConnect(out, node)...)
	}
	return out, node, nil
}

// RemoveNode deletes a node and every edge touching it. Removing a hypothesis
// also removes the live variants bound to it; archived copies are kept.
func RemoveNode(g domain.Graph, id string) (domain.Graph, error) {
	node, ok := g.Node(id)
	if !ok {
		return g, fmt.Errorf("%s: %w", id, domain.ErrNodeNotFound)
	}

	doomed := map[string]bool{id: true}
	if node.Type == domain.NodeHypothesis {
		for _, e := range g.Outgoing(id) {
			if n, ok := g.Node(e.Target); ok && n.Type == domain.NodeVariant {
				doomed[n.ID] = true
			}
		}
		if strategy := node.StrategyID(); strategy != "" {
			for _, n := range g.OfType(domain.NodeVariant) {
				if v, ok := n.Data.(domain.VariantData); ok && v.StrategyID == strategy && !v.Archived() {
					doomed[n.ID] = true
				}
			}
		}
	}
	return without(g, doomed), nil
}

// UpdateNodeData merges partial into the payload of node id. Edges touching
// the node that the change makes invalid, such as a hypothesis switching
// strategy, are dropped.
func UpdateNodeData(g domain.Graph, id string, partial map[string]any) (domain.Graph, error) {
	i := g.IndexOf(id)
	if i < 0 {
		return g, fmt.Errorf("%s: %w", id, domain.ErrNodeNotFound)
	}
	merged, err := schema.Merge(g.Nodes[i].Type, g.Nodes[i].Data, partial)
	if err != nil {
		return g, fmt.Errorf("update %s: %w", id, err)
	}

	out := g.Clone()
	out.Nodes[i].Data = merged

	// Only strategy bindings can change validity here; type-level stale
	// edges from older snapshots are left alone.
	kept := out.Edges[:0]
	for _, e := range out.Edges {
		if e.Source == id || e.Target == id {
			src, okS := out.Node(e.Source)
			dst, okT := out.Node(e.Target)
			if okS && okT && connect.IsValidConnection(src.Type, dst.Type) && !connect.Allowed(src, dst) {
				continue
			}
		}
		kept = append(kept, e)
	}
	out.Edges = kept
	return out, nil
}

// SetMeasured records the rendered size of a node.
func SetMeasured(g domain.Graph, id string, size domain.Size) (domain.Graph, error) {
	i := g.IndexOf(id)
	if i < 0 {
		return g, fmt.Errorf("%s: %w", id, domain.ErrNodeNotFound)
	}
	out := g.Clone()
	out.Nodes[i].Measured = &size
	return out, nil
}

func without(g domain.Graph, doomed map[string]bool) domain.Graph {
	out := domain.Graph{Nodes: []domain.Node{}, Edges: []domain.Edge{}}
	for _, n := range g.Nodes {
		if !doomed[n.ID] {
			out.Nodes = append(out.Nodes, n.Clone())
		}
	}
	for _, e := range g.Edges {
		if !doomed[e.Source] && !doomed[e.Target] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}
