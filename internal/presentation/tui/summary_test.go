package tui

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	snap := domain.NewSnapshot()
	brief := domain.Node{ID: "brief", Type: domain.NodeDesignBrief, Data: domain.SectionData{Content: "hello"}}
	variant := domain.Node{ID: "v", Type: domain.NodeVariant, Data: domain.VariantData{StrategyID: "s1", ActiveResultID: "r1", Versions: []string{"r1"}}}
	snap.Nodes = []domain.Node{brief, variant, {ID: "x", Type: "legacy", Data: domain.UnknownData{}}}
	snap.Edges = []domain.Edge{{ID: "bad", Source: "brief", Target: "v", Type: domain.EdgeData, Status: domain.EdgeIdle}}

	out := Summary("demo", snap)
	assert.Contains(t, out, "# Canvas demo")
	assert.Contains(t, out, "3 nodes, 1 edges")
	assert.Contains(t, out, "## Input")
	assert.Contains(t, out, "| brief | designBrief | 5 chars |")
	assert.Contains(t, out, "| v | variant | r1, 1 versions |")
	assert.Contains(t, out, "- x (`legacy`)")
	assert.Contains(t, out, "idle: 1")
	assert.Contains(t, out, "## Violations")
	assert.NotContains(t, out, "## Processing")
}
