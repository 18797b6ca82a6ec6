package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Envelope
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Envelope),
	}
}

func copyEnvelope(in *domain.Envelope) *domain.Envelope {
	return &domain.Envelope{Version: in.Version, Snapshot: bytes.Clone(in.Snapshot)}
}

// Save persists a copy of the snapshot in memory.
func (s *Store) Save(ctx context.Context, canvasID string, env *domain.Envelope) error {
	copied := copyEnvelope(env)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[canvasID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored snapshot.
func (s *Store) Load(ctx context.Context, canvasID string) (*domain.Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	env, ok := s.data[canvasID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return copyEnvelope(env), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, canvasID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, canvasID)
	return nil
}

// List returns the stored canvas IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
