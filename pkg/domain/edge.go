package domain

import (
	"crypto/sha256"
	"fmt"
)

// EdgeStatus tracks generation progress along an edge.
type EdgeStatus string

const (
	EdgeIdle       EdgeStatus = "idle"
	EdgeProcessing EdgeStatus = "processing"
	EdgeComplete   EdgeStatus = "complete"
	EdgeError      EdgeStatus = "error"
)

// Valid reports whether s is one of the known statuses.
func (s EdgeStatus) Valid() bool {
	switch s {
	case EdgeIdle, EdgeProcessing, EdgeComplete, EdgeError:
		return true
	}
	return false
}

// EdgeType classifies what flows along an edge.
type EdgeType string

const (
	EdgeData     EdgeType = "data"
	EdgeConfig   EdgeType = "config"
	EdgeFeedback EdgeType = "feedback"
)

// EdgeTypeFor derives the edge type from its endpoints.
func EdgeTypeFor(source, target NodeType) EdgeType {
	switch {
	case source == NodeModel:
		return EdgeConfig
	case source == NodeCritique, target == NodeCritique:
		return EdgeFeedback
	}
	return EdgeData
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string     `json:"id" mapstructure:"id"`
	Source string     `json:"source" mapstructure:"source"`
	Target string     `json:"target" mapstructure:"target"`
	Type   EdgeType   `json:"type,omitempty" mapstructure:"type"`
	Status EdgeStatus `json:"status" mapstructure:"status"`
}

// EdgeID derives the ID of the edge from source to target.
// Equal ordered pairs always map to the same ID.
func EdgeID(source, target string) string {
	hash := sha256.Sum256([]byte(source + "\x00" + target))
	return fmt.Sprintf("e-%x", hash[:8])
}

// NewEdge builds an idle edge between two nodes.
func NewEdge(source, target Node) Edge {
	return Edge{
		ID:     EdgeID(source.ID, target.ID),
		Source: source.ID,
		Target: target.ID,
		Type:   EdgeTypeFor(source.Type, target.Type),
		Status: EdgeIdle,
	}
}
