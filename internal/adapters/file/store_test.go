package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lattice/internal/adapters/file"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements SnapshotStore
var _ ports.SnapshotStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	err := store.Save(ctx, "../escape", &domain.Envelope{Version: 1, Snapshot: []byte(`{}`)})
	assert.Error(t, err)

	_, err = store.Load(ctx, "")
	assert.Error(t, err)
}

func TestFileStore_KeepsLegacyBody(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	legacy := []byte(`{"version":1,"snapshot":{"nodes":[{"id":"s","type":"section","data":{"sectionId":"designBrief"}}]}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), legacy, 0644))

	env, err := store.Load(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, 1, env.Version)
	assert.Contains(t, string(env.Snapshot), `"sectionId":"designBrief"`)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)
}
