package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/migrate"
	"github.com/aretw0/lattice/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed canvas lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates canvas access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store    ports.SnapshotStore
	migrator *migrate.Migrator

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithMigrator sets the migrator applied on load.
func WithMigrator(mig *migrate.Migrator) Option {
	return func(m *Manager) {
		m.migrator = mig
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given snapshot store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.migrator == nil {
		m.migrator = migrate.New(migrate.WithLogger(m.logger))
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking.
func (m *Manager) acquire(canvasID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[canvasID]
	if !exists {
		entry = &lockEntry{}
		m.locks[canvasID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(canvasID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[canvasID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, canvasID)
	}
}

// Load retrieves and migrates a stored canvas.
// Returns domain.ErrSnapshotNotFound if the canvas does not exist.
func (m *Manager) Load(ctx context.Context, canvasID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		var err error
		snap, err = m.load(ctx, canvasID)
		return err
	})
	return snap, err
}

// LoadOrCreate loads a canvas, persisting an empty one when none exists.
func (m *Manager) LoadOrCreate(ctx context.Context, canvasID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		var err error
		snap, err = m.loadOrCreate(ctx, canvasID)
		return err
	})
	return snap, err
}

// Save persists the snapshot at the current schema version.
func (m *Manager) Save(ctx context.Context, canvasID string, snap *domain.Snapshot) error {
	return m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		return m.save(ctx, canvasID, snap)
	})
}

// Update loads a canvas, applies fn and saves the result while holding the
// canvas lock. A missing canvas starts empty and is only created once fn
// succeeds. Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, canvasID string, fn func(*domain.Snapshot) error) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		current, err := m.load(ctx, canvasID)
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			current, err = domain.NewSnapshot(), nil
		}
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}
		if err := m.save(ctx, canvasID, current); err != nil {
			return err
		}
		snap = current
		return nil
	})
	return snap, err
}

// Delete removes the canvas from the store.
func (m *Manager) Delete(ctx context.Context, canvasID string) error {
	return m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		return m.store.Delete(ctx, canvasID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes fn while holding the lock for the canvas.
func (m *Manager) WithLock(ctx context.Context, canvasID string, fn func(context.Context) error) error {
	entry := m.acquire(canvasID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(canvasID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, canvasID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"canvas_id", canvasID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, canvasID string) (*domain.Snapshot, error) {
	env, err := m.store.Load(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	return m.migrator.Load(ctx, env), nil
}

func (m *Manager) loadOrCreate(ctx context.Context, canvasID string) (*domain.Snapshot, error) {
	snap, err := m.load(ctx, canvasID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("failed to check canvas existence: %w", err)
	}

	snap = domain.NewSnapshot()
	if err := m.save(ctx, canvasID, snap); err != nil {
		return nil, fmt.Errorf("failed to initialize canvas: %w", err)
	}
	return snap, nil
}

func (m *Manager) save(ctx context.Context, canvasID string, snap *domain.Snapshot) error {
	env, err := domain.Seal(snap)
	if err != nil {
		return err
	}
	return m.store.Save(ctx, canvasID, env)
}
