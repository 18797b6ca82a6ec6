package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event at debug level,
// except discarded migrations which are warnings.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeAdded: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_added", "node_id", e.NodeID, "type", e.NodeType)
		},
		OnNodeRemoved: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_removed", "node_id", e.NodeID, "type", e.NodeType)
		},
		OnEdgeAdded: func(ctx context.Context, e *domain.EdgeEvent) {
			logger.DebugContext(ctx, "edge_added", "edge_id", e.Edge.ID, "source", e.Edge.Source, "target", e.Edge.Target)
		},
		OnEdgeRemoved: func(ctx context.Context, e *domain.EdgeEvent) {
			logger.DebugContext(ctx, "edge_removed", "edge_id", e.Edge.ID)
		},
		OnLayout: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.DebugContext(ctx, "layout", "nodes", e.Nodes, "duration", e.Duration)
		},
		OnSync: func(ctx context.Context, e *domain.SyncEvent) {
			logger.DebugContext(ctx, "generation_sync", "source_id", e.SourceID, "created", e.Created, "stacked", e.Stacked)
		},
		OnMigrate: func(ctx context.Context, e *domain.MigrationEvent) {
			if e.Discarded {
				logger.WarnContext(ctx, "snapshot_discarded", "from_version", e.FromVersion, "reason", e.Reason)
				return
			}
			logger.DebugContext(ctx, "snapshot_migrated", "from_version", e.FromVersion, "to_version", e.ToVersion)
		},
	}
}

// Chain merges hook sets; each event is delivered to every set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnNodeAdded = chain(out.OnNodeAdded, h.OnNodeAdded)
		out.OnNodeRemoved = chain(out.OnNodeRemoved, h.OnNodeRemoved)
		out.OnEdgeAdded = chain(out.OnEdgeAdded, h.OnEdgeAdded)
		out.OnEdgeRemoved = chain(out.OnEdgeRemoved, h.OnEdgeRemoved)
		out.OnLayout = chain(out.OnLayout, h.OnLayout)
		out.OnSync = chain(out.OnSync, h.OnSync)
		out.OnMigrate = chain(out.OnMigrate, h.OnMigrate)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
