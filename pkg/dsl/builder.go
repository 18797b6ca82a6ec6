package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID: id,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build returns the graph with nodes in insertion order. Edges are added
// through the connection validator; every rejected edge is reported.
func (b *Builder) Build() (domain.Graph, error) {
	g := domain.Graph{
		Nodes: make([]domain.Node, 0, len(b.order)),
		Edges: []domain.Edge{},
	}
	var errs []error
	for _, id := range b.order {
		node := b.nodes[id].Build()
		if !node.Type.Known() {
			errs = append(errs, fmt.Errorf("node %s: %w: %q", id, domain.ErrUnknownNodeType, node.Type))
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, id := range b.order {
		for _, target := range b.nodes[id].targets {
			if _, ok := b.nodes[target]; !ok {
				errs = append(errs, fmt.Errorf("edge %s -> %s: %w", id, target, domain.ErrNodeNotFound))
				continue
			}
			next, ok := connect.Connect(g, id, target)
			if !ok {
				errs = append(errs, fmt.Errorf("edge %s -> %s: %w", id, target, domain.ErrInvalidConnection))
				continue
			}
			g = next
		}
	}

	if err := errors.Join(errs...); err != nil {
		return domain.Graph{}, err
	}
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for tests and fixtures.
func (b *Builder) MustBuild() domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
