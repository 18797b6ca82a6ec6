package domain

import "errors"

// ErrNodeNotFound is returned when a node ID is not present in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrEdgeNotFound is returned when an edge ID is not present in the graph.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrSingletonExists is returned when adding a section type that is already on the canvas.
var ErrSingletonExists = errors.New("section node already exists")

// ErrUnknownNodeType is returned for type tags outside the node taxonomy.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrInvalidConnection is returned when an edge is rejected by the compatibility matrix.
var ErrInvalidConnection = errors.New("invalid connection")

// ErrSnapshotNotFound is returned when a canvas ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrResultNotFound is returned by result stores for unknown result IDs.
var ErrResultNotFound = errors.New("result not found")

// ErrSectionNotFound is returned by spec stores for unknown section IDs.
var ErrSectionNotFound = errors.New("section not found")

// ErrNodeExists is returned when a node ID is already used on the canvas.
var ErrNodeExists = errors.New("node already exists")

// ErrPayloadMismatch is returned when a payload does not belong to the node's type.
var ErrPayloadMismatch = errors.New("payload does not match node type")
