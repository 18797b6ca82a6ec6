package canvas

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
)

// AddEdge connects source to target through the compatibility matrix.
// It reports false, leaving g unchanged, when the connection is rejected.
func AddEdge(g domain.Graph, source, target string) (domain.Graph, bool) {
	return connect.Connect(g, source, target)
}

// RemoveEdge deletes the edge with the given ID.
func RemoveEdge(g domain.Graph, id string) (domain.Graph, error) {
	i := g.EdgeIndex(id)
	if i < 0 {
		return g, fmt.Errorf("%s: %w", id, domain.ErrEdgeNotFound)
	}
	out := g.Clone()
	out.Edges = append(out.Edges[:i], out.Edges[i+1:]...)
	return out, nil
}

// SetEdgeStatus overwrites the status of an edge.
func SetEdgeStatus(g domain.Graph, id string, status domain.EdgeStatus) (domain.Graph, error) {
	if !status.Valid() {
		return g, fmt.Errorf("unknown edge status %q", status)
	}
	i := g.EdgeIndex(id)
	if i < 0 {
		return g, fmt.Errorf("%s: %w", id, domain.ErrEdgeNotFound)
	}
	out := g.Clone()
	out.Edges[i].Status = status
	return out, nil
}
