package migrate_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/migrate"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v1Snapshot = `{
  "nodes": [
    {"id": "s1", "type": "section", "position": {"x": 0, "y": 0}, "data": {"sectionId": "designBrief", "title": "Brief"}},
    {"id": "s2", "type": "section", "position": {"x": 0, "y": 300}, "data": {"sectionId": "designBrief"}},
    {"id": "s3", "type": "section", "data": {"sectionId": "researchContext"}},
    {"id": "s4", "type": "section", "data": {"sectionId": "mystery"}},
    {"id": "g", "type": "generator", "position": {"x": 440, "y": 0}, "data": {"title": "Compiler"}},
    {"id": "h", "type": "hypothesis", "data": {"strategyId": "st-1", "name": "Bold"}},
    {"id": "o", "type": "output", "data": {"resultId": "r1"}}
  ],
  "edges": [
    {"id": "x1", "source": "s1", "target": "g"},
    {"id": "x2", "source": "s1", "target": "g", "status": "complete"},
    {"id": "x3", "source": "s2", "target": "g"},
    {"id": "x4", "source": "g", "target": "h", "status": "bogus"},
    {"id": "x5", "source": "h", "target": "o", "status": "complete"}
  ],
  "showMiniMap": false
}`

func newMigrator(opts ...migrate.Option) *migrate.Migrator {
	results := memory.NewResults(ports.ResultRef{ID: "r1", StrategyID: "st-1"})
	spec := memory.Spec{"researchContext": "Users order on mobile."}
	base := []migrate.Option{
		migrate.WithResultStore(results),
		migrate.WithSpecStore(spec),
		migrate.WithLogger(logging.NewNop()),
	}
	return migrate.New(append(base, opts...)...)
}

func TestMigrate_FromV1(t *testing.T) {
	snap := newMigrator().Migrate(context.Background(), []byte(v1Snapshot), 1)
	g := snap.Graph()

	require.Len(t, g.Nodes, 5)
	brief, ok := g.Node("s1")
	require.True(t, ok)
	assert.Equal(t, domain.NodeDesignBrief, brief.Type)
	assert.Equal(t, domain.SectionData{Title: "Brief"}, brief.Data)

	_, ok = g.Node("s2")
	assert.False(t, ok, "duplicate section dropped")
	_, ok = g.Node("s4")
	assert.False(t, ok, "unknown section dropped")

	research, ok := g.Node("s3")
	require.True(t, ok)
	assert.Equal(t, domain.SectionData{Content: "Users order on mobile."}, research.Data)

	compiler, ok := g.Node("g")
	require.True(t, ok)
	assert.Equal(t, domain.NodeCompiler, compiler.Type)

	variant, ok := g.Node("o")
	require.True(t, ok)
	assert.Equal(t, domain.NodeVariant, variant.Type)
	assert.Equal(t, domain.VariantData{
		StrategyID:     "st-1",
		ActiveResultID: "r1",
		Versions:       []string{"r1"},
	}, variant.Data)

	require.Len(t, g.Edges, 3)
	assert.Equal(t, domain.Edge{
		ID: domain.EdgeID("s1", "g"), Source: "s1", Target: "g",
		Type: domain.EdgeData, Status: domain.EdgeIdle,
	}, g.Edges[0])
	assert.Equal(t, domain.EdgeIdle, g.Edges[1].Status, "invalid status reset")
	assert.Equal(t, domain.EdgeComplete, g.Edges[2].Status)
	assert.Equal(t, domain.EdgeID("h", "o"), g.Edges[2].ID)

	assert.Equal(t, map[string]bool{"miniMap": false}, snap.DisplayFlags)
	assert.Equal(t, float64(domain.DefaultLayoutGap), snap.LayoutGapPixels)
	assert.True(t, snap.AutoLayoutEnabled)
	assert.Equal(t, domain.Viewport{Zoom: 1}, snap.Viewport)
}

func TestMigrate_CurrentVersionRoundTrip(t *testing.T) {
	want := domain.NewSnapshot()
	want.Nodes = []domain.Node{
		{ID: "h", Type: domain.NodeHypothesis, Data: domain.HypothesisData{StrategyID: "st-1"}},
		{ID: "v", Type: domain.NodeVariant, Position: domain.Position{X: 1320},
			Data: domain.VariantData{StrategyID: "st-1", ActiveResultID: "r2", Versions: []string{"r1", "r2"}}},
	}
	want.Edges = []domain.Edge{{
		ID: domain.EdgeID("h", "v"), Source: "h", Target: "v",
		Type: domain.EdgeData, Status: domain.EdgeProcessing,
	}}
	want.LayoutGapPixels = 80
	want.AutoLayoutEnabled = false
	want.DisplayFlags = map[string]bool{"grid": true}

	env, err := domain.Seal(want)
	require.NoError(t, err)

	got := newMigrator().Load(context.Background(), env)
	assert.Equal(t, want, got)
}

func TestMigrate_Discards(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		version int
	}{
		{"Malformed JSON", `{"nodes": [`, 1},
		{"Not An Object", `[1, 2, 3]`, 3},
		{"Null Body", `null`, 5},
		{"Nodes Wrong Shape", `{"nodes": "oops"}`, 2},
		{"Edges Wrong Shape", `{"nodes": [], "edges": {"a": 1}}`, 4},
		{"Future Version", `{"nodes": []}`, domain.CurrentSnapshotVersion + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []*domain.MigrationEvent
			m := newMigrator(migrate.WithHooks(domain.LifecycleHooks{
				OnMigrate: func(_ context.Context, e *domain.MigrationEvent) {
					events = append(events, e)
				},
			}))

			snap := m.Migrate(context.Background(), []byte(tt.raw), tt.version)
			assert.Equal(t, domain.NewSnapshot(), snap)
			require.Len(t, events, 1)
			assert.True(t, events[0].Discarded)
			assert.NotEmpty(t, events[0].Reason)
		})
	}
}

func TestMigrate_UnversionedTreatedAsV1(t *testing.T) {
	raw := `{"nodes": [{"id": "a", "type": "generator"}]}`
	snap := newMigrator().Migrate(context.Background(), []byte(raw), 0)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, domain.NodeCompiler, snap.Nodes[0].Type)
}

func TestMigrate_NilEnvelope(t *testing.T) {
	assert.Equal(t, domain.NewSnapshot(), migrate.New().Load(context.Background(), nil))
}

func TestMigrate_WithoutStores(t *testing.T) {
	raw := `{"nodes": [{"id": "o", "type": "variant", "data": {"resultId": "r1"}}]}`
	snap := migrate.New().Migrate(context.Background(), []byte(raw), 2)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, domain.VariantData{ActiveResultID: "r1", Versions: []string{"r1"}}, snap.Nodes[0].Data)
}

type failingResults struct{}

func (failingResults) Result(context.Context, string) (ports.ResultRef, error) {
	return ports.ResultRef{}, errors.New("connection refused")
}

func (failingResults) Results(context.Context) ([]ports.ResultRef, error) {
	return nil, errors.New("connection refused")
}

func TestMigrate_StoreFailureKeepsSnapshot(t *testing.T) {
	raw := `{"nodes": [{"id": "o", "type": "variant", "data": {"activeResultId": "r9"}}]}`
	m := migrate.New(migrate.WithResultStore(failingResults{}))
	snap := m.Migrate(context.Background(), []byte(raw), 2)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "", snap.Nodes[0].Data.(domain.VariantData).StrategyID)
}

func TestSteps_Ordered(t *testing.T) {
	steps := migrate.Steps()
	require.Len(t, steps, domain.CurrentSnapshotVersion-1)
	for i, s := range steps {
		assert.Equal(t, i+1, s.From, s.Name)
	}
}

func TestSteps_CanonicalEdgesKeepsKnownType(t *testing.T) {
	raw := `{
	  "nodes": [{"id": "m", "type": "model"}, {"id": "c", "type": "compiler"}],
	  "edges": [{"id": "legacy", "source": "m", "target": "c", "type": "data"}]
	}`
	var state migrate.State
	require.NoError(t, json.Unmarshal([]byte(raw), &state))

	step := migrate.Steps()[3]
	out, err := step.Apply(context.Background(), state, migrate.Env{Logger: logging.NewNop()})
	require.NoError(t, err)

	edges := out["edges"].([]any)
	require.Len(t, edges, 1)
	edge := edges[0].(map[string]any)
	assert.Equal(t, domain.EdgeID("m", "c"), edge["id"])
	assert.Equal(t, "data", edge["type"])
	assert.Equal(t, "idle", edge["status"])
}
