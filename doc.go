/*
Package lattice is the graph engine behind a node-based design canvas where
design inputs are wired through processing stages into generated variants.

It keeps the canvas as an explicit value: every operation takes the current
graph and returns a new one, so hosts own the single source of truth and can
re-render, persist or discard results as they see fit. The engine itself
holds configuration only.

# Concept

A canvas is a directed graph of typed nodes. Input sections (brief, research,
constraints...) feed a compiler, which grows hypothesis nodes, one per
strategy. Each hypothesis grows a variant that stacks the results produced
for its strategy. Edges are validated against a fixed connection matrix.

# Key Features

  - Deterministic Layout: rank columns by longest path, snapped to a grid.
  - Lineage: everything upstream and downstream of a selection.
  - Version Stacking: repeated generations stack onto one variant node.
  - Migration: snapshots from older schema versions are upgraded on load.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/lattice"
		"github.com/aretw0/lattice/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		eng := lattice.New()

		g := domain.Graph{}
		g, brief, _ := eng.AddNode(ctx, g, domain.NodeDesignBrief, nil)
		g, compiler, _ := eng.AddNode(ctx, g, domain.NodeCompiler, nil)

		g.Nodes = eng.Layout(ctx, g.Nodes, g.Edges, 0)
		fmt.Println(eng.Lineage(g, compiler.ID).Nodes(), brief.ID)
	}
*/
package lattice
