package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(id string, t domain.NodeType) domain.Node {
	return domain.Node{ID: id, Type: t, Data: domain.NewPayload(t)}
}

func e(s, t string) domain.Edge {
	return domain.Edge{ID: domain.EdgeID(s, t), Source: s, Target: t, Status: domain.EdgeIdle}
}

func pipeline() ([]domain.Node, []domain.Edge) {
	nodes := []domain.Node{
		n("variant", domain.NodeVariant),
		n("model", domain.NodeModel),
		n("brief", domain.NodeDesignBrief),
		n("ds", domain.NodeDesignSystem),
		n("compiler", domain.NodeCompiler),
		n("hypothesis", domain.NodeHypothesis),
		n("research", domain.NodeResearchContext),
	}
	nodes[0].Measured = &domain.Size{Width: 333, Height: 417}
	edges := []domain.Edge{
		e("brief", "compiler"),
		e("research", "compiler"),
		e("ds", "compiler"),
		e("model", "compiler"),
		e("model", "hypothesis"),
		e("compiler", "hypothesis"),
		e("hypothesis", "variant"),
	}
	return nodes, edges
}

func byID(nodes []domain.Node) map[string]domain.Node {
	m := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(nil, nil, DefaultOptions()))
}

func TestApplySingleNode(t *testing.T) {
	out := Apply([]domain.Node{n("brief", domain.NodeDesignBrief)}, nil, DefaultOptions())
	require.Len(t, out, 1)
	assert.Equal(t, domain.Position{X: 0, Y: DefaultTopMargin}, out[0].Position)
}

func TestApplyIsIdempotentAndDeterministic(t *testing.T) {
	nodes, edges := pipeline()
	opts := DefaultOptions()

	first := Apply(nodes, edges, opts)
	second := Apply(first, edges, opts)
	again := Apply(nodes, edges, opts)

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
	for i := range nodes {
		assert.Equal(t, nodes[i].ID, first[i].ID, "input order is kept")
		assert.Equal(t, domain.Position{}, nodes[i].Position, "input is not modified")
	}
}

func TestApplyRankMonotonicity(t *testing.T) {
	nodes, edges := pipeline()
	pos := byID(Apply(nodes, edges, DefaultOptions()))
	for _, edge := range edges {
		assert.Greater(t, pos[edge.Target].Position.X, pos[edge.Source].Position.X, edge.Source+"->"+edge.Target)
	}
}

func TestApplyGridSnapping(t *testing.T) {
	nodes, edges := pipeline()
	opts := DefaultOptions()
	opts.ColumnGap = 113
	for _, node := range Apply(nodes, edges, opts) {
		assert.Zero(t, math.Mod(node.Position.X, DefaultGridPitch), node.ID)
		assert.Zero(t, math.Mod(node.Position.Y, DefaultGridPitch), node.ID)
		assert.GreaterOrEqual(t, node.Position.Y, float64(DefaultTopMargin))
	}
}

func TestApplyCycle(t *testing.T) {
	nodes := []domain.Node{n("a", domain.NodeCompiler), n("b", domain.NodeHypothesis)}
	edges := []domain.Edge{e("a", "b"), e("b", "a")}

	out := Apply(nodes, edges, DefaultOptions())
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].Position.X, out[1].Position.X)
	assert.Equal(t, out, Apply(out, edges, DefaultOptions()))
}

func TestApplyDeepChain(t *testing.T) {
	const size = 5000
	nodes := make([]domain.Node, size)
	edges := make([]domain.Edge, 0, size)
	for i := range size {
		// Reverse order forces the walk to descend the whole chain from the tail.
		nodes[size-1-i] = n(fmt.Sprintf("c%d", i), domain.NodeCompiler)
		if i > 0 {
			edges = append(edges, e(fmt.Sprintf("c%d", i-1), fmt.Sprintf("c%d", i)))
		}
	}
	ranks := Ranks(nodes, edges, DefaultOptions())
	assert.Equal(t, size-1, ranks[fmt.Sprintf("c%d", size-1)])
	assert.Equal(t, 0, ranks["c0"])
}

func TestApplyIgnoresUnknownEdges(t *testing.T) {
	nodes, edges := pipeline()
	noisy := append([]domain.Edge{e("ghost", "compiler"), e("brief", "nowhere")}, edges...)
	assert.Equal(t, Apply(nodes, edges, DefaultOptions()), Apply(nodes, noisy, DefaultOptions()))
}

func TestScenarioA(t *testing.T) {
	nodes := []domain.Node{n("brief", domain.NodeDesignBrief), n("compiler", domain.NodeCompiler)}
	edges := []domain.Edge{e("brief", "compiler")}

	pos := byID(Apply(nodes, edges, DefaultOptions()))
	assert.Equal(t, 0.0, pos["brief"].Position.X)
	assert.Equal(t, float64(DefaultTopMargin), pos["brief"].Position.Y)
	assert.Equal(t, domain.DefaultNodeWidth+domain.DefaultLayoutGap, pos["compiler"].Position.X)
}

func TestScenarioB(t *testing.T) {
	archived := domain.Node{ID: "archived", Type: domain.NodeVariant, Data: domain.VariantData{StrategyID: "s1", PinnedRunID: "run-1"}}

	t.Run("Default Output Column", func(t *testing.T) {
		nodes := []domain.Node{n("compiler", domain.NodeCompiler), n("hypothesis", domain.NodeHypothesis), archived}
		edges := []domain.Edge{e("compiler", "hypothesis")}

		ranks := Ranks(nodes, edges, DefaultOptions())
		assert.Equal(t, 0, ranks["compiler"])
		assert.Equal(t, 1, ranks["hypothesis"])
		assert.Equal(t, DefaultOutputRank, ranks["archived"])

		pos := byID(Apply(nodes, edges, DefaultOptions()))
		assert.Greater(t, pos["archived"].Position.X, pos["hypothesis"].Position.X)
	})

	t.Run("Matches Wired Sibling", func(t *testing.T) {
		nodes := []domain.Node{
			n("compiler", domain.NodeCompiler),
			n("hypothesis", domain.NodeHypothesis),
			archived,
			n("live", domain.NodeVariant),
		}
		edges := []domain.Edge{e("compiler", "hypothesis"), e("hypothesis", "live")}

		ranks := Ranks(nodes, edges, DefaultOptions())
		assert.Equal(t, ranks["live"], ranks["archived"])

		pos := byID(Apply(nodes, edges, DefaultOptions()))
		assert.Equal(t, pos["live"].Position.X, pos["archived"].Position.X)
	})
}

func TestConfigNodePrecedesTarget(t *testing.T) {
	nodes := []domain.Node{
		n("brief", domain.NodeDesignBrief),
		n("compiler", domain.NodeCompiler),
		n("hypothesis", domain.NodeHypothesis),
		n("model", domain.NodeModel),
	}
	edges := []domain.Edge{e("brief", "compiler"), e("compiler", "hypothesis"), e("model", "hypothesis")}

	ranks := Ranks(nodes, edges, DefaultOptions())
	assert.Equal(t, 1, ranks["model"], "one rank before the hypothesis")
}

func TestBarycenterOrdering(t *testing.T) {
	nodes := []domain.Node{
		n("c1", domain.NodeCompiler),
		n("c2", domain.NodeCompiler),
		n("research", domain.NodeResearchContext),
		n("brief", domain.NodeDesignBrief),
	}
	edges := []domain.Edge{e("research", "c1"), e("brief", "c2")}

	pos := byID(Apply(nodes, edges, DefaultOptions()))
	assert.Less(t, pos["brief"].Position.Y, pos["research"].Position.Y, "type priority in the first layer")
	assert.Less(t, pos["c2"].Position.Y, pos["c1"].Position.Y, "barycenter follows predecessors")
}

func TestSingleNodeLayerIsNudged(t *testing.T) {
	nodes := []domain.Node{
		n("brief", domain.NodeDesignBrief),
		n("research", domain.NodeResearchContext),
		n("constraints", domain.NodeDesignConstraints),
		n("compiler", domain.NodeCompiler),
	}
	edges := []domain.Edge{e("research", "compiler"), e("constraints", "compiler")}

	pos := byID(Apply(nodes, edges, DefaultOptions()))
	research := pos["research"].Position.Y + domain.NodeResearchContext.FallbackHeight()/2
	constraints := pos["constraints"].Position.Y + domain.NodeDesignConstraints.FallbackHeight()/2
	centre := pos["compiler"].Position.Y + domain.NodeCompiler.FallbackHeight()/2
	assert.InDelta(t, (research+constraints)/2, centre, DefaultGridPitch)
}

func TestPlace(t *testing.T) {
	opts := DefaultOptions()
	first := Place(nil, domain.NodeCompiler, opts)
	assert.Equal(t, domain.Position{X: domain.DefaultNodeWidth + domain.DefaultLayoutGap, Y: DefaultTopMargin}, first)

	existing := []domain.Node{{ID: "c1", Type: domain.NodeCompiler, Position: first}}
	next := Place(existing, domain.NodeHypothesis, opts)
	assert.Equal(t, first.X, next.X)
	assert.Greater(t, next.Y, first.Y+domain.NodeCompiler.FallbackHeight())
}

func TestApplyNarrowColumnsStaySeparate(t *testing.T) {
	nodes := []domain.Node{n("model", domain.NodeModel), n("compiler", domain.NodeCompiler), n("hypothesis", domain.NodeHypothesis)}
	for i := range nodes {
		nodes[i].Measured = &domain.Size{Width: 4, Height: 40}
	}
	edges := []domain.Edge{e("model", "compiler"), e("compiler", "hypothesis")}

	opts := DefaultOptions()
	opts.ColumnGap = 0
	out := byID(Apply(nodes, edges, opts))

	assert.Less(t, out["model"].Position.X, out["compiler"].Position.X)
	assert.Less(t, out["compiler"].Position.X, out["hypothesis"].Position.X)
	for _, node := range out {
		assert.Zero(t, math.Mod(node.Position.X, opts.GridPitch), node.ID)
	}

	again := byID(Apply(Apply(nodes, edges, opts), edges, opts))
	assert.Equal(t, out, again)
}
