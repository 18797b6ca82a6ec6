package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot(t *testing.T) *domain.Envelope {
	t.Helper()
	snap := domain.NewSnapshot()
	snap.Nodes = []domain.Node{
		{ID: "brief", Type: domain.NodeDesignBrief, Position: domain.Position{X: 0, Y: 40}, Data: domain.SectionData{Content: "Calmer checkout"}},
		{ID: "v1", Type: domain.NodeVariant, Data: domain.VariantData{StrategyID: "s1", ActiveResultID: "r2", Versions: []string{"r1", "r2"}}},
	}
	snap.Edges = []domain.Edge{{ID: "e1", Source: "brief", Target: "v1", Status: domain.EdgeComplete}}
	snap.DisplayFlags["miniMap"] = true
	env, err := domain.Seal(snap)
	require.NoError(t, err)
	return env
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	canvasID := "contract-test-canvas-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		want := contractSnapshot(t)
		require.NoError(t, store.Save(ctx, canvasID, want), "Save should not return error")

		loaded, err := store.Load(ctx, canvasID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, want.Version, loaded.Version)
		assert.JSONEq(t, string(want.Snapshot), string(loaded.Snapshot))

		var snap domain.Snapshot
		require.NoError(t, json.Unmarshal(loaded.Snapshot, &snap))
		require.Len(t, snap.Nodes, 2)
		assert.Equal(t, []string{"r1", "r2"}, snap.Nodes[1].Data.(domain.VariantData).Versions)
		assert.True(t, snap.DisplayFlags["miniMap"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+canvasID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, canvasID, contractSnapshot(t)))
		require.NoError(t, store.Delete(ctx, canvasID), "Delete should not return error")

		_, err := store.Load(ctx, canvasID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := canvasID + "-1"
		id2 := canvasID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot(t))
		_ = store.Save(ctx, id2, contractSnapshot(t))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunResultStoreContract verifies a ResultStore seeded with the given refs.
func RunResultStoreContract(t *testing.T, store ResultStore, seeded []ResultRef) {
	ctx := context.Background()
	require.NotEmpty(t, seeded, "contract needs seeded results")

	t.Run("Result", func(t *testing.T) {
		for _, want := range seeded {
			got, err := store.Result(ctx, want.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Result Not Found", func(t *testing.T) {
		_, err := store.Result(ctx, "missing-result")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Results", func(t *testing.T) {
		all, err := store.Results(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, seeded, all)
	})
}

// RunSpecStoreContract verifies a SpecStore seeded with the given sections.
func RunSpecStoreContract(t *testing.T, store SpecStore, seeded map[string]string) {
	ctx := context.Background()

	t.Run("Section", func(t *testing.T) {
		for id, want := range seeded {
			got, err := store.Section(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Section Not Found", func(t *testing.T) {
		_, err := store.Section(ctx, "missingSection")
		assert.ErrorIs(t, err, domain.ErrSectionNotFound)
	})
}
