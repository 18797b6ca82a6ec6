package domain

import (
	"encoding/json"
	"fmt"
)

// CurrentSnapshotVersion is the schema version written by this module.
const CurrentSnapshotVersion = 5

// DefaultLayoutGap is the column gap, in pixels, of a fresh canvas.
const DefaultLayoutGap = 120

// Viewport is the pan and zoom of the canvas view.
type Viewport struct {
	X    float64 `json:"x" mapstructure:"x"`
	Y    float64 `json:"y" mapstructure:"y"`
	Zoom float64 `json:"zoom" mapstructure:"zoom"`
}

// Snapshot is the persisted shape of a canvas.
type Snapshot struct {
	Nodes             []Node          `json:"nodes" mapstructure:"nodes"`
	Edges             []Edge          `json:"edges" mapstructure:"edges"`
	Viewport          Viewport        `json:"viewport" mapstructure:"viewport"`
	DisplayFlags      map[string]bool `json:"displayFlags" mapstructure:"displayFlags"`
	LayoutGapPixels   float64         `json:"layoutGapPixels" mapstructure:"layoutGapPixels"`
	AutoLayoutEnabled bool            `json:"autoLayoutEnabled" mapstructure:"autoLayoutEnabled"`
}

// Envelope is the unit snapshot stores persist. The body is kept raw so that
// snapshots written by older versions reach the migrator untouched.
type Envelope struct {
	Version  int             `json:"version"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Seal wraps s in an envelope tagged with the current version.
func Seal(s *Snapshot) (*Envelope, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("seal snapshot: %w", err)
	}
	return &Envelope{Version: CurrentSnapshotVersion, Snapshot: body}, nil
}

// NewSnapshot returns the empty canvas used on first load and as the migration fallback.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Nodes:             []Node{},
		Edges:             []Edge{},
		Viewport:          Viewport{Zoom: 1},
		DisplayFlags:      map[string]bool{},
		LayoutGapPixels:   DefaultLayoutGap,
		AutoLayoutEnabled: true,
	}
}

// Graph returns a copy of the snapshot's nodes and edges.
func (s *Snapshot) Graph() Graph {
	return Graph{Nodes: s.Nodes, Edges: s.Edges}.Clone()
}

// SetGraph replaces the snapshot's nodes and edges.
func (s *Snapshot) SetGraph(g Graph) {
	s.Nodes = g.Nodes
	s.Edges = g.Edges
}
