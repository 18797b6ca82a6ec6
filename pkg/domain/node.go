package domain

import (
	"encoding/json"
	"fmt"
)

// NodeType is the closed set of node kinds a canvas can hold.
type NodeType string

const (
	// Section inputs. At most one of each per graph.
	NodeDesignBrief       NodeType = "designBrief"
	NodeExistingDesign    NodeType = "existingDesign"
	NodeResearchContext   NodeType = "researchContext"
	NodeObjectivesMetrics NodeType = "objectivesMetrics"
	NodeDesignConstraints NodeType = "designConstraints"

	// NodeModel configures the processing nodes it is attached to.
	NodeModel NodeType = "model"
	// NodeCompiler turns sections into strategies.
	NodeCompiler NodeType = "compiler"
	// NodeDesignSystem feeds tokens and guidelines into compilers and hypotheses.
	NodeDesignSystem NodeType = "designSystem"
	// NodeHypothesis is bound to one strategy.
	NodeHypothesis NodeType = "hypothesis"
	// NodeVariant holds the generated results of one strategy.
	NodeVariant NodeType = "variant"
	// NodeCritique feeds review notes back into compilers.
	NodeCritique NodeType = "critique"
)

// Role groups node types for layering and palette ordering.
type Role string

const (
	RoleInput      Role = "input"
	RoleProcessing Role = "processing"
	RoleOutput     Role = "output"
)

// DefaultNodeWidth is the width assumed for nodes the renderer has not measured yet.
const DefaultNodeWidth = 320.0

type typeInfo struct {
	role     Role
	height   float64
	priority int
}

var taxonomy = map[NodeType]typeInfo{
	NodeDesignBrief:       {RoleInput, 280, 0},
	NodeExistingDesign:    {RoleInput, 240, 1},
	NodeResearchContext:   {RoleInput, 240, 2},
	NodeObjectivesMetrics: {RoleInput, 240, 3},
	NodeDesignConstraints: {RoleInput, 240, 4},
	NodeCritique:          {RoleInput, 220, 5},
	NodeDesignSystem:      {RoleProcessing, 200, 6},
	NodeModel:             {RoleProcessing, 160, 7},
	NodeCompiler:          {RoleProcessing, 220, 8},
	NodeHypothesis:        {RoleProcessing, 260, 9},
	NodeVariant:           {RoleOutput, 360, 10},
}

// NodeTypes returns every known type in palette order.
func NodeTypes() []NodeType {
	out := make([]NodeType, len(taxonomy))
	for t, info := range taxonomy {
		out[info.priority] = t
	}
	return out
}

// Known reports whether t belongs to the taxonomy.
func (t NodeType) Known() bool {
	_, ok := taxonomy[t]
	return ok
}

// Role returns the role of t. Unknown types are treated as processing nodes.
func (t NodeType) Role() Role {
	if info, ok := taxonomy[t]; ok {
		return info.role
	}
	return RoleProcessing
}

// Priority is the position of t in the fixed type-priority list. Unknown types sort last.
func (t NodeType) Priority() int {
	if info, ok := taxonomy[t]; ok {
		return info.priority
	}
	return len(taxonomy)
}

// FallbackHeight is the height used until the renderer reports a measured size.
func (t NodeType) FallbackHeight() float64 {
	if info, ok := taxonomy[t]; ok {
		return info.height
	}
	return 200
}

// IsSection reports whether t is one of the singleton section inputs.
func (t NodeType) IsSection() bool {
	switch t {
	case NodeDesignBrief, NodeExistingDesign, NodeResearchContext, NodeObjectivesMetrics, NodeDesignConstraints:
		return true
	}
	return false
}

// ParseNodeType validates a raw type tag.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
	}
	return t, nil
}

// Position is a canvas coordinate of the node's top-left corner.
type Position struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Size is a rendered node size.
type Size struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// Node represents one pipeline stage on the canvas.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	// Measured is reported by the renderer. Nil until the node has been drawn.
	Measured *Size  `json:"measured,omitempty"`
	Data     Payload `json:"data"`
}

// Width returns the measured width or the default width.
func (n Node) Width() float64 {
	if n.Measured != nil && n.Measured.Width > 0 {
		return n.Measured.Width
	}
	return DefaultNodeWidth
}

// Height returns the measured height or the type's fallback height.
func (n Node) Height() float64 {
	if n.Measured != nil && n.Measured.Height > 0 {
		return n.Measured.Height
	}
	return n.Type.FallbackHeight()
}

// StrategyID returns the strategy a hypothesis or variant node is bound to.
func (n Node) StrategyID() string {
	switch d := n.Data.(type) {
	case HypothesisData:
		return d.StrategyID
	case VariantData:
		return d.StrategyID
	}
	return ""
}

// Clone returns a copy that shares no mutable state with n.
func (n Node) Clone() Node {
	out := n
	if n.Measured != nil {
		m := *n.Measured
		out.Measured = &m
	}
	if n.Data != nil {
		out.Data = n.Data.clone()
	}
	return out
}

type nodeJSON struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Position Position        `json:"position"`
	Measured *Size           `json:"measured,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON selects the payload shape from the node type.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	payload, err := DecodePayloadJSON(raw.Type, raw.Data)
	if err != nil {
		return fmt.Errorf("node %s: %w", raw.ID, err)
	}
	*n = Node{ID: raw.ID, Type: raw.Type, Position: raw.Position, Measured: raw.Measured, Data: payload}
	return nil
}
