package generation

import (
	"crypto/sha256"
	"fmt"
	"slices"

	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/layout"
)

// Result is one finished generation for a strategy.
type Result struct {
	StrategyID string `json:"strategyId" mapstructure:"strategyId"`
	ResultID   string `json:"resultId" mapstructure:"resultId"`
}

// Options configures node growth.
type Options struct {
	Layout layout.Options
	// NewID names grown nodes. It receives the source ID and the strategy ID.
	NewID func(sourceID, strategyID string) string
}

// DefaultOptions uses the default layout constants and deterministic IDs.
func DefaultOptions() Options {
	return Options{Layout: layout.DefaultOptions(), NewID: DeterministicID}
}

// DeterministicID derives a node ID from the source and strategy so that
// replaying a batch never yields two nodes for the same pair.
func DeterministicID(sourceID, strategyID string) string {
	hash := sha256.Sum256([]byte(sourceID + "\x00" + strategyID))
	return fmt.Sprintf("n-%x", hash[:8])
}

// Sync stacks results onto the successors of sourceID. An unknown source is a
// no-op. Results whose strategy cannot be attached to the source are skipped
// and left out of the returned map.
func Sync(g domain.Graph, sourceID string, results []Result, opts Options) (domain.Graph, map[string]string) {
	placed := make(map[string]string, len(results))
	src, ok := g.Node(sourceID)
	if !ok || len(results) == 0 {
		return g, placed
	}
	opts = opts.withDefaults()

	out := g.Clone()
	for _, r := range results {
		if r.StrategyID == "" || r.ResultID == "" {
			continue
		}
		if id, ok := successorFor(out, sourceID, domain.NodeVariant, r.StrategyID); ok {
			i := out.IndexOf(id)
			v, _ := out.Nodes[i].Data.(domain.VariantData)
			out.Nodes[i].Data = v.Push(r.ResultID)
			setStatus(&out, domain.EdgeID(sourceID, id), domain.EdgeProcessing)
			placed[r.StrategyID] = id
			continue
		}

		node := domain.Node{
			ID:       uniqueID(out, opts.NewID(sourceID, r.StrategyID)),
			Type:     domain.NodeVariant,
			Position: nextColumn(src, opts.Layout),
			Data:     domain.VariantData{StrategyID: r.StrategyID}.Push(r.ResultID),
		}
		if !connect.Allowed(src, node) {
			continue
		}
		edge := domain.NewEdge(src, node)
		edge.Status = domain.EdgeProcessing
		out.Nodes = append(out.Nodes, node)
		out.Edges = append(out.Edges, edge)
		placed[r.StrategyID] = node.ID
	}
	return out, placed
}

// Complete records the outcome of one result on the edge from sourceID to nodeID.
func Complete(g domain.Graph, sourceID, nodeID string, status domain.EdgeStatus) (domain.Graph, error) {
	if status != domain.EdgeComplete && status != domain.EdgeError {
		return g, fmt.Errorf("completion status must be %q or %q, got %q", domain.EdgeComplete, domain.EdgeError, status)
	}
	id := domain.EdgeID(sourceID, nodeID)
	if !g.HasEdge(id) {
		return g, fmt.Errorf("%s -> %s: %w", sourceID, nodeID, domain.ErrEdgeNotFound)
	}
	out := g.Clone()
	setStatus(&out, id, status)
	return out, nil
}

// SelectVersion moves the active pointer of a variant to a result already in its history.
func SelectVersion(g domain.Graph, nodeID, resultID string) (domain.Graph, error) {
	i := g.IndexOf(nodeID)
	if i < 0 {
		return g, fmt.Errorf("%s: %w", nodeID, domain.ErrNodeNotFound)
	}
	v, ok := g.Nodes[i].Data.(domain.VariantData)
	if !ok {
		return g, fmt.Errorf("node %s is a %s, not a variant", nodeID, g.Nodes[i].Type)
	}
	if !slices.Contains(v.Versions, resultID) {
		return g, fmt.Errorf("%s on %s: %w", resultID, nodeID, domain.ErrResultNotFound)
	}
	out := g.Clone()
	out.Nodes[i].Data = v.Push(resultID)
	return out, nil
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = DeterministicID
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	return o
}

// successorFor finds an immediate successor of sourceID of type t bound to strategyID.
func successorFor(g domain.Graph, sourceID string, t domain.NodeType, strategyID string) (string, bool) {
	for _, e := range g.Outgoing(sourceID) {
		if n, ok := g.Node(e.Target); ok && n.Type == t && n.StrategyID() == strategyID {
			return n.ID, true
		}
	}
	return "", false
}

func setStatus(g *domain.Graph, edgeID string, status domain.EdgeStatus) {
	if i := g.EdgeIndex(edgeID); i >= 0 {
		g.Edges[i].Status = status
	}
}

func nextColumn(src domain.Node, opts layout.Options) domain.Position {
	x := layout.NextColumnX(src.Position.X, src.Width(), opts.ColumnGap)
	return domain.Position{X: layout.Snap(x, opts.GridPitch), Y: src.Position.Y}
}

func uniqueID(g domain.Graph, id string) string {
	candidate := id
	for i := 2; g.IndexOf(candidate) >= 0; i++ {
		candidate = fmt.Sprintf("%s-%d", id, i)
	}
	return candidate
}
