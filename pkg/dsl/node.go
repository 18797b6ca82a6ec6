package dsl

import "github.com/aretw0/lattice/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	targets []string
	builder *Builder
}

// As sets the node type and resets the payload to the empty payload of t.
func (n *NodeBuilder) As(t domain.NodeType) *NodeBuilder {
	n.node.Type = t
	n.node.Data = domain.NewPayload(t)
	return n
}

// Data replaces the payload.
func (n *NodeBuilder) Data(p domain.Payload) *NodeBuilder {
	n.node.Data = p
	return n
}

// Title sets the title of payloads that carry one.
func (n *NodeBuilder) Title(title string) *NodeBuilder {
	switch d := n.node.Data.(type) {
	case domain.SectionData:
		d.Title = title
		n.node.Data = d
	case domain.CompilerData:
		d.Title = title
		n.node.Data = d
	case domain.DesignSystemData:
		d.Title = title
		n.node.Data = d
	case domain.CritiqueData:
		d.Title = title
		n.node.Data = d
	case domain.HypothesisData:
		d.Name = title
		n.node.Data = d
	}
	return n
}

// Content sets the body text of section, design system and critique payloads.
func (n *NodeBuilder) Content(content string) *NodeBuilder {
	switch d := n.node.Data.(type) {
	case domain.SectionData:
		d.Content = content
		n.node.Data = d
	case domain.DesignSystemData:
		d.Content = content
		n.node.Data = d
	case domain.CritiqueData:
		d.Content = content
		n.node.Data = d
	}
	return n
}

// Strategy binds a hypothesis or variant to a strategy.
func (n *NodeBuilder) Strategy(id string) *NodeBuilder {
	switch d := n.node.Data.(type) {
	case domain.HypothesisData:
		d.StrategyID = id
		n.node.Data = d
	case domain.VariantData:
		d.StrategyID = id
		n.node.Data = d
	}
	return n
}

// Versions pushes result IDs onto a variant's version stack; the last one is active.
func (n *NodeBuilder) Versions(resultIDs ...string) *NodeBuilder {
	if d, ok := n.node.Data.(domain.VariantData); ok {
		for _, id := range resultIDs {
			d = d.Push(id)
		}
		n.node.Data = d
	}
	return n
}

// Pinned marks a variant as an archived copy of runID.
func (n *NodeBuilder) Pinned(runID string) *NodeBuilder {
	if d, ok := n.node.Data.(domain.VariantData); ok {
		d.PinnedRunID = runID
		n.node.Data = d
	}
	return n
}

// At sets the canvas position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	return n
}

// Measured records the rendered size.
func (n *NodeBuilder) Measured(width, height float64) *NodeBuilder {
	n.node.Measured = &domain.Size{Width: width, Height: height}
	return n
}

// To adds edges from this node to the targets.
func (n *NodeBuilder) To(targets ...string) *NodeBuilder {
	n.targets = append(n.targets, targets...)
	return n
}

// Add starts the next node, for chaining.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}

// Graph finishes the builder this node belongs to.
func (n *NodeBuilder) Graph() (domain.Graph, error) {
	return n.builder.Build()
}
