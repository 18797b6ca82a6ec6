package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeAdded       EventType = "node_added"
	EventNodeRemoved     EventType = "node_removed"
	EventEdgeAdded       EventType = "edge_added"
	EventEdgeRemoved     EventType = "edge_removed"
	EventLayout          EventType = "layout"
	EventGenerationSync  EventType = "generation_sync"
	EventSnapshotMigrate EventType = "snapshot_migrate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent is emitted when a node enters or leaves the graph.
type NodeEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
}

// EdgeEvent is emitted when an edge enters or leaves the graph.
type EdgeEvent struct {
	EventBase
	Edge Edge `json:"edge"`
}

// LayoutEvent is emitted after a layout pass.
type LayoutEvent struct {
	EventBase
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
}

// SyncEvent reports one generation sync batch.
type SyncEvent struct {
	EventBase
	SourceID string `json:"source_id"`
	Created  int    `json:"created"`
	Stacked  int    `json:"stacked"`
}

// MigrationEvent reports the outcome of a snapshot migration.
type MigrationEvent struct {
	EventBase
	FromVersion int    `json:"from_version"`
	ToVersion   int    `json:"to_version"`
	Discarded   bool   `json:"discarded"`
	Reason      string `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeAdded   func(context.Context, *NodeEvent)
	OnNodeRemoved func(context.Context, *NodeEvent)
	OnEdgeAdded   func(context.Context, *EdgeEvent)
	OnEdgeRemoved func(context.Context, *EdgeEvent)
	OnLayout      func(context.Context, *LayoutEvent)
	OnSync        func(context.Context, *SyncEvent)
	OnMigrate     func(context.Context, *MigrationEvent)
}

// NewEventBase stamps an event of type t with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}
