package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/schema"
)

// ErrFutureVersion is reported when a snapshot is newer than this build.
var ErrFutureVersion = errors.New("snapshot version is newer than supported")

// Migrator applies the registered steps to legacy snapshots.
type Migrator struct {
	results ports.ResultStore
	spec    ports.SpecStore
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	steps   []Step
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithResultStore lets steps backfill fields from generation results.
func WithResultStore(s ports.ResultStore) Option {
	return func(m *Migrator) {
		m.results = s
	}
}

// WithSpecStore lets steps backfill section content.
func WithSpecStore(s ports.SpecStore) Option {
	return func(m *Migrator) {
		m.spec = s
	}
}

// WithLogger configures the logger used to report discarded snapshots.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) {
		m.logger = logger
	}
}

// WithHooks registers lifecycle hooks. Only OnMigrate is used.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Migrator) {
		m.hooks = hooks
	}
}

// New creates a Migrator with the default step chain.
func New(opts ...Option) *Migrator {
	m := &Migrator{
		logger: logging.NewNop(),
		steps:  Steps(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load migrates the body of a stored envelope. A nil envelope yields an
// empty canvas.
func (m *Migrator) Load(ctx context.Context, env *domain.Envelope) *domain.Snapshot {
	if env == nil {
		return domain.NewSnapshot()
	}
	return m.Migrate(ctx, env.Snapshot, env.Version)
}

// Migrate decodes raw, written at fromVersion, and brings it to
// domain.CurrentSnapshotVersion. It never fails: anything that cannot be
// migrated is replaced by domain.NewSnapshot.
func (m *Migrator) Migrate(ctx context.Context, raw []byte, fromVersion int) *domain.Snapshot {
	snap, err := m.migrate(ctx, raw, fromVersion)
	if err != nil {
		m.logger.Warn("discarding unmigratable snapshot",
			"from_version", fromVersion,
			"to_version", domain.CurrentSnapshotVersion,
			"err", err)
		m.report(ctx, fromVersion, true, err.Error())
		return domain.NewSnapshot()
	}
	if fromVersion != domain.CurrentSnapshotVersion {
		m.logger.Debug("snapshot migrated",
			"from_version", fromVersion,
			"to_version", domain.CurrentSnapshotVersion,
			"nodes", len(snap.Nodes),
			"edges", len(snap.Edges))
		m.report(ctx, fromVersion, false, "")
	}
	return snap
}

func (m *Migrator) migrate(ctx context.Context, raw []byte, fromVersion int) (*domain.Snapshot, error) {
	if fromVersion > domain.CurrentSnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrFutureVersion, fromVersion)
	}
	// Unversioned snapshots predate the envelope and share the v1 shape.
	if fromVersion < 1 {
		fromVersion = 1
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if state == nil {
		return nil, errors.New("decode snapshot: empty body")
	}

	env := Env{Results: m.results, Spec: m.spec, Logger: m.logger}
	for _, step := range m.steps {
		if step.From < fromVersion {
			continue
		}
		next, err := step.Apply(ctx, state, env)
		if err != nil {
			return nil, fmt.Errorf("step %s (v%d): %w", step.Name, step.From, err)
		}
		state = next
	}

	snap, err := schema.DecodeSnapshot(state)
	if err != nil {
		return nil, fmt.Errorf("decode v%d snapshot: %w", domain.CurrentSnapshotVersion, err)
	}
	return snap, nil
}

func (m *Migrator) report(ctx context.Context, from int, discarded bool, reason string) {
	if m.hooks.OnMigrate == nil {
		return
	}
	m.hooks.OnMigrate(ctx, &domain.MigrationEvent{
		EventBase:   domain.NewEventBase(domain.EventSnapshotMigrate),
		FromVersion: from,
		ToVersion:   domain.CurrentSnapshotVersion,
		Discarded:   discarded,
		Reason:      reason,
	})
}
