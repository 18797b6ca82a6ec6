// Package middleware wraps snapshot stores with cross-cutting persistence behavior.
package middleware

import "github.com/aretw0/lattice/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore
