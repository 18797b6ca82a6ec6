package lattice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/canvas"
	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/generation"
	"github.com/aretw0/lattice/pkg/layout"
	"github.com/aretw0/lattice/pkg/lineage"
	"github.com/aretw0/lattice/pkg/migrate"
	"github.com/google/uuid"
)

// IDGenerator names nodes created through AddNode.
type IDGenerator func(t domain.NodeType) string

// Engine is the high-level entry point for the Lattice library.
// It holds configuration only: every operation takes the current graph and
// returns a new one, leaving the input untouched.
type Engine struct {
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	layout      layout.Options
	newID       IDGenerator
	growID      func(sourceID, strategyID string) string
	migrator    *migrate.Migrator
	autoConnect bool
	autoLayout  bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLayoutOptions overrides the layout constants.
func WithLayoutOptions(opts layout.Options) Option {
	return func(e *Engine) {
		e.layout = opts
	}
}

// WithIDGenerator replaces the random node IDs used by AddNode.
func WithIDGenerator(gen IDGenerator) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// WithMigrator sets the migrator used by Migrate. Without it, a migrator
// with no collaborator stores is used.
func WithMigrator(m *migrate.Migrator) Option {
	return func(e *Engine) {
		e.migrator = m
	}
}

// WithAutoConnect toggles wiring of new nodes to compatible neighbours (default: on).
func WithAutoConnect(enabled bool) Option {
	return func(e *Engine) {
		e.autoConnect = enabled
	}
}

// WithAutoLayout re-runs layout after every structural change (default: off).
func WithAutoLayout(enabled bool) Option {
	return func(e *Engine) {
		e.autoLayout = enabled
	}
}

// New initializes a new Lattice Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		layout:      layout.DefaultOptions(),
		autoConnect: true,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.newID == nil {
		eng.newID = RandomID
	}
	if eng.growID == nil {
		eng.growID = generation.DeterministicID
	}
	if eng.migrator == nil {
		eng.migrator = migrate.New(migrate.WithLogger(eng.logger), migrate.WithHooks(eng.hooks))
	}
	return eng
}

// RandomID is the default IDGenerator.
func RandomID(t domain.NodeType) string {
	return fmt.Sprintf("%s-%s", t, uuid.NewString())
}

// ForSnapshot returns a copy of the engine that follows the layout gap and
// auto-layout switch stored on s.
func (e *Engine) ForSnapshot(s *domain.Snapshot) *Engine {
	c := *e
	if s.LayoutGapPixels > 0 {
		c.layout.ColumnGap = s.LayoutGapPixels
	}
	c.autoLayout = s.AutoLayoutEnabled
	return &c
}

// LayoutOptions returns the layout constants in effect.
func (e *Engine) LayoutOptions() layout.Options {
	return e.layout
}

// AddNode creates a node of type t. Without a position the node is placed in
// the column of its role. Section types are singletons.
func (e *Engine) AddNode(ctx context.Context, g domain.Graph, t domain.NodeType, pos *domain.Position) (domain.Graph, domain.Node, error) {
	return e.AddNodeSpec(ctx, g, canvas.NodeSpec{Type: t, Position: pos})
}

// AddNodeSpec is AddNode with full control over ID and payload. An empty ID
// is filled by the engine's generator; auto-connect follows the engine.
func (e *Engine) AddNodeSpec(ctx context.Context, g domain.Graph, spec canvas.NodeSpec) (domain.Graph, domain.Node, error) {
	if spec.ID == "" {
		spec.ID = e.newID(spec.Type)
	}
	spec.AutoConnect = e.autoConnect

	out, node, err := canvas.AddNode(g, spec, e.layout)
	if err != nil {
		return g, domain.Node{}, err
	}
	out = e.relayout(ctx, out)
	if i := out.IndexOf(node.ID); i >= 0 {
		node = out.Nodes[i]
	}
	e.logger.Debug("node added", "node_id", node.ID, "type", node.Type)
	e.emit(ctx, g, out)
	return out, node, nil
}

// RemoveNode deletes a node, its edges and, for hypotheses, the live variants bound to it.
func (e *Engine) RemoveNode(ctx context.Context, g domain.Graph, id string) (domain.Graph, error) {
	out, err := canvas.RemoveNode(g, id)
	if err != nil {
		return g, err
	}
	out = e.relayout(ctx, out)
	e.emit(ctx, g, out)
	return out, nil
}

// AddEdge connects source to target. It reports false, and returns g
// unchanged, when the connection is not allowed or already exists.
func (e *Engine) AddEdge(ctx context.Context, g domain.Graph, source, target string) (domain.Graph, bool) {
	out, ok := canvas.AddEdge(g, source, target)
	if !ok {
		e.logger.Debug("connection rejected", "source", source, "target", target)
		return g, false
	}
	out = e.relayout(ctx, out)
	e.emit(ctx, g, out)
	return out, true
}

// RemoveEdge deletes an edge by ID.
func (e *Engine) RemoveEdge(ctx context.Context, g domain.Graph, id string) (domain.Graph, error) {
	out, err := canvas.RemoveEdge(g, id)
	if err != nil {
		return g, err
	}
	out = e.relayout(ctx, out)
	e.emit(ctx, g, out)
	return out, nil
}

// UpdateNodeData merges partial into a node's payload.
func (e *Engine) UpdateNodeData(ctx context.Context, g domain.Graph, id string, partial map[string]any) (domain.Graph, error) {
	out, err := canvas.UpdateNodeData(g, id, partial)
	if err != nil {
		return g, err
	}
	e.emit(ctx, g, out)
	return out, nil
}

// SetMeasured records a node's rendered size and re-runs layout when enabled.
func (e *Engine) SetMeasured(ctx context.Context, g domain.Graph, id string, size domain.Size) (domain.Graph, error) {
	out, err := canvas.SetMeasured(g, id, size)
	if err != nil {
		return g, err
	}
	return e.relayout(ctx, out), nil
}

// Layout positions nodes in rank columns. A gap of zero or less uses the
// engine's configured column gap.
func (e *Engine) Layout(ctx context.Context, nodes []domain.Node, edges []domain.Edge, gap float64) []domain.Node {
	opts := e.layout
	if gap > 0 {
		opts = opts.WithGap(gap)
	}
	start := time.Now()
	out := layout.Apply(nodes, edges, opts)
	if e.hooks.OnLayout != nil {
		e.hooks.OnLayout(ctx, &domain.LayoutEvent{
			EventBase: domain.NewEventBase(domain.EventLayout),
			Nodes:     len(out),
			Duration:  time.Since(start),
		})
	}
	return out
}

// Lineage returns the nodes and edges of g connected to seed. Edges that
// reference nodes missing from g are ignored.
func (e *Engine) Lineage(g domain.Graph, seed string) lineage.Result {
	return lineage.TraceGraph(g, seed)
}

// IsValidConnection reports whether an edge from source to target type is allowed.
func (e *Engine) IsValidConnection(source, target domain.NodeType) bool {
	return connect.IsValidConnection(source, target)
}

// Audit lists the edges of g that break connection rules.
func (e *Engine) Audit(g domain.Graph) []connect.Violation {
	return connect.Audit(g)
}

// SyncGeneration stacks a batch of generation results onto the variants
// grown from sourceID. The returned map names the node for each strategy.
func (e *Engine) SyncGeneration(ctx context.Context, g domain.Graph, sourceID string, results []generation.Result) (domain.Graph, map[string]string) {
	out, placed := generation.Sync(g, sourceID, results, e.growOptions())
	e.reportSync(ctx, g, out, sourceID, placed)
	return out, placed
}

// CompleteGeneration marks the edge from sourceID to nodeID complete or errored.
func (e *Engine) CompleteGeneration(ctx context.Context, g domain.Graph, sourceID, nodeID string, status domain.EdgeStatus) (domain.Graph, error) {
	out, err := generation.Complete(g, sourceID, nodeID, status)
	if err != nil {
		return g, err
	}
	e.emit(ctx, g, out)
	return out, nil
}

// SelectVersion moves a variant's active result to an earlier version.
func (e *Engine) SelectVersion(ctx context.Context, g domain.Graph, nodeID, resultID string) (domain.Graph, error) {
	out, err := generation.SelectVersion(g, nodeID, resultID)
	if err != nil {
		return g, err
	}
	e.emit(ctx, g, out)
	return out, nil
}

// SyncCompilation grows one hypothesis per strategy out of a compiler.
func (e *Engine) SyncCompilation(ctx context.Context, g domain.Graph, compilerID string, strategies []generation.Strategy) (domain.Graph, map[string]string) {
	out, placed := generation.SyncCompilation(g, compilerID, strategies, e.growOptions())
	e.reportSync(ctx, g, out, compilerID, placed)
	return out, placed
}

// PruneStrategies removes live hypotheses and variants whose strategy is not in live.
func (e *Engine) PruneStrategies(ctx context.Context, g domain.Graph, live []string) (domain.Graph, []string) {
	out, removed := canvas.PruneStrategies(g, live)
	e.emit(ctx, g, out)
	return out, removed
}

// PruneResults drops versions whose result is not in live.
func (e *Engine) PruneResults(ctx context.Context, g domain.Graph, live []string) (domain.Graph, []string) {
	out, removed := canvas.PruneResults(g, live)
	e.emit(ctx, g, out)
	return out, removed
}

// Migrate upgrades a raw snapshot written at fromVersion. It never fails;
// an unreadable snapshot yields an empty canvas.
func (e *Engine) Migrate(ctx context.Context, raw []byte, fromVersion int) *domain.Snapshot {
	return e.migrator.Migrate(ctx, raw, fromVersion)
}

func (e *Engine) growOptions() generation.Options {
	return generation.Options{Layout: e.layout, NewID: e.growID}
}

func (e *Engine) relayout(ctx context.Context, g domain.Graph) domain.Graph {
	if !e.autoLayout {
		return g
	}
	g.Nodes = e.Layout(ctx, g.Nodes, g.Edges, 0)
	return g
}

func (e *Engine) reportSync(ctx context.Context, before, after domain.Graph, sourceID string, placed map[string]string) {
	created := 0
	for _, id := range placed {
		if before.IndexOf(id) < 0 {
			created++
		}
	}
	e.logger.Debug("generation synced", "source_id", sourceID, "created", created, "stacked", len(placed)-created)
	e.emit(ctx, before, after)
	if e.hooks.OnSync != nil {
		e.hooks.OnSync(ctx, &domain.SyncEvent{
			EventBase: domain.NewEventBase(domain.EventGenerationSync),
			SourceID:  sourceID,
			Created:   created,
			Stacked:   len(placed) - created,
		})
	}
}

// emit fires node and edge hooks for the structural difference between two graphs.
func (e *Engine) emit(ctx context.Context, before, after domain.Graph) {
	h := e.hooks
	if h.OnNodeAdded == nil && h.OnNodeRemoved == nil && h.OnEdgeAdded == nil && h.OnEdgeRemoved == nil {
		return
	}
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	if h.OnNodeAdded != nil {
		for _, n := range diff.AddedNodes {
			h.OnNodeAdded(ctx, &domain.NodeEvent{
				EventBase: domain.NewEventBase(domain.EventNodeAdded),
				NodeID:    n.ID,
				NodeType:  n.Type,
			})
		}
	}
	if h.OnNodeRemoved != nil {
		for _, id := range diff.RemovedNodes {
			n, _ := before.Node(id)
			h.OnNodeRemoved(ctx, &domain.NodeEvent{
				EventBase: domain.NewEventBase(domain.EventNodeRemoved),
				NodeID:    id,
				NodeType:  n.Type,
			})
		}
	}
	if h.OnEdgeAdded != nil {
		for _, edge := range diff.AddedEdges {
			h.OnEdgeAdded(ctx, &domain.EdgeEvent{
				EventBase: domain.NewEventBase(domain.EventEdgeAdded),
				Edge:      edge,
			})
		}
	}
	if h.OnEdgeRemoved != nil {
		for _, id := range diff.RemovedEdges {
			var edge domain.Edge
			if i := before.EdgeIndex(id); i >= 0 {
				edge = before.Edges[i]
			}
			h.OnEdgeRemoved(ctx, &domain.EdgeEvent{
				EventBase: domain.NewEventBase(domain.EventEdgeRemoved),
				Edge:      edge,
			})
		}
	}
}
