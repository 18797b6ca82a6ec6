package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnLayout(ctx, &domain.LayoutEvent{Nodes: 12, Duration: time.Millisecond})
	hooks.OnSync(ctx, &domain.SyncEvent{Created: 2, Stacked: 1})
	hooks.OnMigrate(ctx, &domain.MigrationEvent{Discarded: true})
	hooks.OnMigrate(ctx, &domain.MigrationEvent{})
	hooks.OnMigrate(ctx, &domain.MigrationEvent{})
	hooks.OnNodeAdded(ctx, &domain.NodeEvent{EventBase: domain.NewEventBase(domain.EventNodeAdded)})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LayoutRuns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodesSynced.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodesSynced.WithLabelValues("stacked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Migrations.WithLabelValues("discarded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Migrations.WithLabelValues("migrated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphChanges.WithLabelValues("node_added")))

	count, err := testutil.GatherAndCount(reg, "lattice_layout_nodes")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnLayout: func(context.Context, *domain.LayoutEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnLayout: func(context.Context, *domain.LayoutEvent) { calls = append(calls, "b") }}

	hooks := observability.Chain(a, observability.LogHooks(logging.NewNop()), b)
	hooks.OnLayout(context.Background(), &domain.LayoutEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)

	empty := observability.Chain()
	assert.Nil(t, empty.OnSync)
}
