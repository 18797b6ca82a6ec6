package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// Conventional keys under which hosts keep the collaborator stores.
const (
	ResultsKey = "lattice:results"
	SpecKey    = "lattice:spec"
)

// SnapshotStore persists versioned canvas snapshots. Stores treat the
// envelope body as opaque; decoding and migration happen above them.
type SnapshotStore interface {
	// Save persists the snapshot for a given canvas ID.
	Save(ctx context.Context, canvasID string, env *domain.Envelope) error

	// Load retrieves the snapshot for a given canvas ID.
	// Returns domain.ErrSnapshotNotFound if the canvas does not exist.
	Load(ctx context.Context, canvasID string) (*domain.Envelope, error)

	// Delete removes the snapshot for a given canvas ID.
	Delete(ctx context.Context, canvasID string) error

	// List returns the IDs of all stored canvases.
	List(ctx context.Context) ([]string, error)
}

// ResultRef is what the migrator needs to know about a generation result.
type ResultRef struct {
	ID         string `json:"id"`
	StrategyID string `json:"strategyId"`
}

// ResultStore exposes generation results keyed by result ID. Read-only.
type ResultStore interface {
	// Result returns domain.ErrResultNotFound for unknown IDs.
	Result(ctx context.Context, resultID string) (ResultRef, error)
	Results(ctx context.Context) ([]ResultRef, error)
}

// SpecStore exposes section content keyed by section ID. Read-only.
type SpecStore interface {
	// Section returns domain.ErrSectionNotFound for unknown IDs.
	Section(ctx context.Context, sectionID string) (string, error)
}
