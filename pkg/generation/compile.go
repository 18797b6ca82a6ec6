package generation

import (
	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
)

// Strategy is one entry of a finished compilation.
type Strategy struct {
	ID        string `json:"id" mapstructure:"id"`
	Name      string `json:"name,omitempty" mapstructure:"name"`
	Rationale string `json:"rationale,omitempty" mapstructure:"rationale"`
}

// SyncCompilation grows one hypothesis node per strategy out of compilerID,
// refreshing the name and rationale of hypotheses that already exist.
// Like Sync it is idempotent and treats an unknown compiler as a no-op.
func SyncCompilation(g domain.Graph, compilerID string, strategies []Strategy, opts Options) (domain.Graph, map[string]string) {
	placed := make(map[string]string, len(strategies))
	src, ok := g.Node(compilerID)
	if !ok || len(strategies) == 0 {
		return g, placed
	}
	opts = opts.withDefaults()

	out := g.Clone()
	for _, s := range strategies {
		if s.ID == "" {
			continue
		}
		data := domain.HypothesisData{StrategyID: s.ID, Name: s.Name, Rationale: s.Rationale}
		if id, ok := successorFor(out, compilerID, domain.NodeHypothesis, s.ID); ok {
			out.Nodes[out.IndexOf(id)].Data = data
			placed[s.ID] = id
			continue
		}

		node := domain.Node{
			ID:       uniqueID(out, opts.NewID(compilerID, s.ID)),
			Type:     domain.NodeHypothesis,
			Position: nextColumn(src, opts.Layout),
			Data:     data,
		}
		if !connect.Allowed(src, node) {
			continue
		}
		edge := domain.NewEdge(src, node)
		edge.Status = domain.EdgeComplete
		out.Nodes = append(out.Nodes, node)
		out.Edges = append(out.Edges, edge)
		placed[s.ID] = node.ID
	}
	return out, placed
}
