package observability

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	LayoutRuns     prometheus.Counter
	LayoutNodes    prometheus.Histogram
	LayoutDuration prometheus.Histogram
	NodesSynced    *prometheus.CounterVec
	Migrations     *prometheus.CounterVec
	GraphChanges   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LayoutRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_layout_runs_total",
			Help: "Total number of layout passes",
		}),
		LayoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lattice_layout_nodes",
			Help:    "Number of nodes positioned per layout pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		LayoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lattice_layout_duration_seconds",
			Help:    "Duration of layout passes",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		NodesSynced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lattice_nodes_synced_total",
			Help: "Generation results synced onto the canvas",
		}, []string{"outcome"}),
		Migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lattice_migrations_total",
			Help: "Snapshot migrations by outcome",
		}, []string{"outcome"}),
		GraphChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lattice_graph_changes_total",
			Help: "Structural graph changes by kind",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.LayoutRuns, m.LayoutNodes, m.LayoutDuration, m.NodesSynced, m.Migrations, m.GraphChanges)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeAdded: func(_ context.Context, e *domain.NodeEvent) {
			m.GraphChanges.WithLabelValues(string(e.Type)).Inc()
		},
		OnNodeRemoved: func(_ context.Context, e *domain.NodeEvent) {
			m.GraphChanges.WithLabelValues(string(e.Type)).Inc()
		},
		OnEdgeAdded: func(_ context.Context, e *domain.EdgeEvent) {
			m.GraphChanges.WithLabelValues(string(e.Type)).Inc()
		},
		OnEdgeRemoved: func(_ context.Context, e *domain.EdgeEvent) {
			m.GraphChanges.WithLabelValues(string(e.Type)).Inc()
		},
		OnLayout: func(_ context.Context, e *domain.LayoutEvent) {
			m.LayoutRuns.Inc()
			m.LayoutNodes.Observe(float64(e.Nodes))
			m.LayoutDuration.Observe(e.Duration.Seconds())
		},
		OnSync: func(_ context.Context, e *domain.SyncEvent) {
			m.NodesSynced.WithLabelValues("created").Add(float64(e.Created))
			m.NodesSynced.WithLabelValues("stacked").Add(float64(e.Stacked))
		},
		OnMigrate: func(_ context.Context, e *domain.MigrationEvent) {
			outcome := "migrated"
			if e.Discarded {
				outcome = "discarded"
			}
			m.Migrations.WithLabelValues(outcome).Inc()
		},
	}
}
