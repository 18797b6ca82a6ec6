package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomy(t *testing.T) {
	types := NodeTypes()
	require.Len(t, types, 11)
	assert.Equal(t, NodeDesignBrief, types[0])
	assert.Equal(t, NodeVariant, types[len(types)-1])

	sections := 0
	for _, typ := range types {
		if typ.IsSection() {
			sections++
			assert.Equal(t, RoleInput, typ.Role())
		}
		assert.Greater(t, typ.FallbackHeight(), 0.0)
	}
	assert.Equal(t, 5, sections)
	assert.Equal(t, RoleOutput, NodeVariant.Role())
	assert.Equal(t, RoleProcessing, NodeModel.Role())
	assert.Equal(t, RoleInput, NodeCritique.Role())
}

func TestParseNodeType(t *testing.T) {
	typ, err := ParseNodeType("compiler")
	require.NoError(t, err)
	assert.Equal(t, NodeCompiler, typ)

	_, err = ParseNodeType("generator")
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestNodeSizeFallback(t *testing.T) {
	n := Node{ID: "v", Type: NodeVariant}
	assert.Equal(t, DefaultNodeWidth, n.Width())
	assert.Equal(t, NodeVariant.FallbackHeight(), n.Height())

	n.Measured = &Size{Width: 400, Height: 500}
	assert.Equal(t, 400.0, n.Width())
	assert.Equal(t, 500.0, n.Height())
}

func TestNodeJSONRoundTripSelectsPayload(t *testing.T) {
	in := []byte(`[
		{"id":"h1","type":"hypothesis","position":{"x":10,"y":20},"data":{"strategyId":"s1","name":"Bold"}},
		{"id":"v1","type":"variant","position":{"x":0,"y":0},"data":{"strategyId":"s1","activeResultId":"r2","versions":["r1","r2"]}},
		{"id":"x1","type":"legacyThing","position":{"x":0,"y":0},"data":{"foo":"bar"}},
		{"id":"b1","type":"designBrief","position":{"x":0,"y":0}}
	]`)

	var nodes []Node
	require.NoError(t, json.Unmarshal(in, &nodes))
	require.Len(t, nodes, 4)

	assert.Equal(t, HypothesisData{StrategyID: "s1", Name: "Bold"}, nodes[0].Data)
	assert.Equal(t, "s1", nodes[1].StrategyID())
	assert.Equal(t, UnknownData{"foo": "bar"}, nodes[2].Data)
	assert.Equal(t, SectionData{}, nodes[3].Data)

	out, err := json.Marshal(nodes[1])
	require.NoError(t, err)
	var back Node
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, nodes[1], back)
}

func TestVariantPush(t *testing.T) {
	v := VariantData{StrategyID: "s1"}
	v1 := v.Push("r1")
	v2 := v1.Push("r2")
	v3 := v2.Push("r1")

	assert.Empty(t, v.Versions)
	assert.Equal(t, []string{"r1"}, v1.Versions)
	assert.Equal(t, []string{"r1", "r2"}, v3.Versions)
	assert.Equal(t, "r1", v3.ActiveResultID)
}

func TestCloneIsDeep(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "v", Type: NodeVariant, Measured: &Size{Width: 1, Height: 1}, Data: VariantData{Versions: []string{"r1"}}}}}
	c := g.Clone()
	c.Nodes[0].Measured.Width = 99
	c.Nodes[0].Data.(VariantData).Versions[0] = "changed"

	assert.Equal(t, 1.0, g.Nodes[0].Measured.Width)
	assert.Equal(t, "r1", g.Nodes[0].Data.(VariantData).Versions[0])
}

func TestEdgeIDIsOrdered(t *testing.T) {
	assert.Equal(t, EdgeID("a", "b"), EdgeID("a", "b"))
	assert.NotEqual(t, EdgeID("a", "b"), EdgeID("b", "a"))
	assert.Equal(t, EdgeConfig, EdgeTypeFor(NodeModel, NodeCompiler))
	assert.Equal(t, EdgeFeedback, EdgeTypeFor(NodeVariant, NodeCritique))
	assert.Equal(t, EdgeData, EdgeTypeFor(NodeCompiler, NodeHypothesis))
}
