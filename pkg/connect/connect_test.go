package connect

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, t domain.NodeType) domain.Node {
	return domain.Node{ID: id, Type: t, Data: domain.NewPayload(t)}
}

func TestMatrixIsEnumerable(t *testing.T) {
	m := Matrix()
	types := domain.NodeTypes()
	require.Len(t, m, len(types)*len(types))

	valid := 0
	for pair, ok := range m {
		assert.Equal(t, IsValidConnection(pair.Source, pair.Target), ok)
		if ok {
			valid++
		}
	}
	// 5 sections + critique + model(3) + designSystem(2) + compiler + hypothesis + variant
	assert.Equal(t, 14, valid)
}

func TestMatrixIsAsymmetric(t *testing.T) {
	tests := []struct {
		source, target domain.NodeType
		forward        bool
		backward       bool
	}{
		{domain.NodeDesignBrief, domain.NodeCompiler, true, false},
		{domain.NodeCompiler, domain.NodeHypothesis, true, false},
		{domain.NodeHypothesis, domain.NodeVariant, true, false},
		{domain.NodeVariant, domain.NodeCritique, true, false},
		{domain.NodeCritique, domain.NodeCompiler, true, false},
		{domain.NodeModel, domain.NodeHypothesis, true, false},
		{domain.NodeDesignBrief, domain.NodeVariant, false, false},
		{domain.NodeModel, domain.NodeModel, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.source)+"->"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.forward, IsValidConnection(tt.source, tt.target))
			assert.Equal(t, tt.backward, IsValidConnection(tt.target, tt.source))
		})
	}
}

func TestConnect(t *testing.T) {
	g := domain.Graph{Nodes: []domain.Node{
		node("brief", domain.NodeDesignBrief),
		node("c1", domain.NodeCompiler),
	}}

	t.Run("Valid", func(t *testing.T) {
		out, ok := Connect(g, "brief", "c1")
		require.True(t, ok)
		require.Len(t, out.Edges, 1)
		assert.Equal(t, domain.EdgeID("brief", "c1"), out.Edges[0].ID)
		assert.Equal(t, domain.EdgeIdle, out.Edges[0].Status)
		assert.Empty(t, g.Edges, "input graph must not change")

		_, again := Connect(out, "brief", "c1")
		assert.False(t, again, "duplicate ordered pair")
	})

	t.Run("Reverse Direction", func(t *testing.T) {
		_, ok := Connect(g, "c1", "brief")
		assert.False(t, ok)
	})

	t.Run("Unknown Node", func(t *testing.T) {
		out, ok := Connect(g, "brief", "ghost")
		assert.False(t, ok)
		assert.Equal(t, g, out)
	})

	t.Run("Strategy Binding", func(t *testing.T) {
		h := domain.Node{ID: "h", Type: domain.NodeHypothesis, Data: domain.HypothesisData{StrategyID: "s1"}}
		v1 := domain.Node{ID: "v1", Type: domain.NodeVariant, Data: domain.VariantData{StrategyID: "s1"}}
		v2 := domain.Node{ID: "v2", Type: domain.NodeVariant, Data: domain.VariantData{StrategyID: "s2"}}
		sg := domain.Graph{Nodes: []domain.Node{h, v1, v2}}

		_, ok := Connect(sg, "h", "v1")
		assert.True(t, ok)
		_, ok = Connect(sg, "h", "v2")
		assert.False(t, ok)
	})
}

func TestAutoConnect(t *testing.T) {
	t.Run("Model Attaches To Unconfigured Processing Nodes", func(t *testing.T) {
		g := domain.Graph{Nodes: []domain.Node{
			node("m1", domain.NodeModel),
			node("c1", domain.NodeCompiler),
			node("c2", domain.NodeCompiler),
			node("ds", domain.NodeDesignSystem),
			node("m2", domain.NodeModel),
		}}
		g.Edges = []domain.Edge{domain.NewEdge(g.Nodes[0], g.Nodes[1])}

		edges := AutoConnect(g, g.Nodes[4])
		targets := []string{}
		for _, e := range edges {
			assert.Equal(t, "m2", e.Source)
			assert.Equal(t, domain.EdgeConfig, e.Type)
			targets = append(targets, e.Target)
		}
		assert.ElementsMatch(t, []string{"c2", "ds"}, targets)
	})

	t.Run("Compiler Pulls Inputs", func(t *testing.T) {
		g := domain.Graph{Nodes: []domain.Node{
			node("brief", domain.NodeDesignBrief),
			node("research", domain.NodeResearchContext),
			node("m1", domain.NodeModel),
			node("m2", domain.NodeModel),
			node("ds", domain.NodeDesignSystem),
			node("c1", domain.NodeCompiler),
		}}
		edges := AutoConnect(g, g.Nodes[5])
		sources := []string{}
		for _, e := range edges {
			assert.Equal(t, "c1", e.Target)
			sources = append(sources, e.Source)
		}
		assert.ElementsMatch(t, []string{"brief", "research", "ds", "m1"}, sources)
	})

	t.Run("Section Feeds Compilers", func(t *testing.T) {
		g := domain.Graph{Nodes: []domain.Node{
			node("c1", domain.NodeCompiler),
			node("c2", domain.NodeCompiler),
			node("brief", domain.NodeDesignBrief),
		}}
		edges := AutoConnect(g, g.Nodes[2])
		assert.Len(t, edges, 2)
	})

	t.Run("Variant Gets Nothing", func(t *testing.T) {
		g := domain.Graph{Nodes: []domain.Node{
			node("h", domain.NodeHypothesis),
			node("v", domain.NodeVariant),
		}}
		assert.Empty(t, AutoConnect(g, g.Nodes[1]))
	})

	t.Run("Existing Edges Are Not Duplicated", func(t *testing.T) {
		g := domain.Graph{Nodes: []domain.Node{
			node("c1", domain.NodeCompiler),
			node("brief", domain.NodeDesignBrief),
		}}
		g.Edges = []domain.Edge{domain.NewEdge(g.Nodes[1], g.Nodes[0])}
		assert.Empty(t, AutoConnect(g, g.Nodes[1]))
	})
}

func TestAudit(t *testing.T) {
	c := node("c1", domain.NodeCompiler)
	b := node("brief", domain.NodeDesignBrief)
	g := domain.Graph{
		Nodes: []domain.Node{c, b},
		Edges: []domain.Edge{
			domain.NewEdge(b, c),
			{ID: "legacy", Source: "c1", Target: "brief"},
			{ID: "dangling", Source: "c1", Target: "gone"},
		},
	}
	violations := Audit(g)
	require.Len(t, violations, 2)
	assert.Equal(t, "legacy", violations[0].Edge.ID)
	assert.Equal(t, "dangling endpoint", violations[1].Reason)
}
