package lineage

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func edge(s, t string) domain.Edge {
	return domain.Edge{ID: domain.EdgeID(s, t), Source: s, Target: t}
}

func TestTraceChain(t *testing.T) {
	// brief -> compiler -> hypothesis -> variant, model -> compiler
	edges := []domain.Edge{
		edge("brief", "compiler"),
		edge("compiler", "hypothesis"),
		edge("hypothesis", "variant"),
		edge("model", "compiler"),
	}

	res := Trace(edges, "compiler")
	assert.Equal(t, []string{"brief", "compiler", "hypothesis", "model", "variant"}, res.Nodes())
	assert.Len(t, res.Edges(), 4)

	t.Run("Symmetry", func(t *testing.T) {
		for _, seed := range []string{"brief", "hypothesis", "variant", "model"} {
			assert.Equal(t, res.Nodes(), Trace(edges, seed).Nodes(), seed)
		}
	})
}

func TestTraceIsolated(t *testing.T) {
	edges := []domain.Edge{edge("a", "b")}

	res := Trace(edges, "lonely")
	assert.True(t, res.Empty())
	assert.Empty(t, res.Edges())

	assert.True(t, Trace(nil, "a").Empty())
}

func TestTraceCycleAndSelfLoop(t *testing.T) {
	edges := []domain.Edge{
		edge("a", "b"),
		edge("b", "a"),
		edge("b", "b"),
		edge("c", "d"),
	}
	res := Trace(edges, "a")
	assert.Equal(t, []string{"a", "b"}, res.Nodes())
	assert.Len(t, res.Edges(), 3)
}

func TestTraceSelfLoopOnlyIsEmpty(t *testing.T) {
	res := Trace([]domain.Edge{edge("a", "a")}, "a")
	assert.True(t, res.Empty())
}

func TestTraceGraphIgnoresDanglingEdges(t *testing.T) {
	node := func(id string) domain.Node { return domain.Node{ID: id, Type: domain.NodeModel} }

	t.Run("IsolatedNode", func(t *testing.T) {
		g := domain.Graph{
			Nodes: []domain.Node{node("a")},
			Edges: []domain.Edge{edge("a", "ghost")},
		}
		res := TraceGraph(g, "a")
		assert.True(t, res.Empty())
		assert.Empty(t, res.Edges())
	})

	t.Run("ConnectedNode", func(t *testing.T) {
		g := domain.Graph{
			Nodes: []domain.Node{node("a"), node("b")},
			Edges: []domain.Edge{edge("a", "b"), edge("ghost", "b")},
		}
		res := TraceGraph(g, "b")
		assert.Equal(t, []string{"a", "b"}, res.Nodes())
		assert.Equal(t, []string{domain.EdgeID("a", "b")}, res.Edges())
	})

	t.Run("UnknownSeed", func(t *testing.T) {
		g := domain.Graph{Edges: []domain.Edge{edge("ghost", "b")}}
		assert.True(t, TraceGraph(g, "ghost").Empty())
	})
}
