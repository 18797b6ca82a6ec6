package lattice_test

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/generation"
)

// ExampleEngine shows a full round: wire inputs, grow a strategy, stack two
// generations on it and trace the lineage of the variant.
func ExampleEngine() {
	ctx := context.Background()
	eng := lattice.New(lattice.WithIDGenerator(func(t domain.NodeType) string {
		return string(t)
	}))

	g := domain.Graph{}
	g, _, _ = eng.AddNode(ctx, g, domain.NodeDesignBrief, nil)
	g, _, _ = eng.AddNode(ctx, g, domain.NodeCompiler, nil)

	g, hypotheses := eng.SyncCompilation(ctx, g, "compiler", []generation.Strategy{{ID: "bold", Name: "Bold"}})
	g, variants := eng.SyncGeneration(ctx, g, hypotheses["bold"], []generation.Result{{StrategyID: "bold", ResultID: "r1"}})
	g, _ = eng.SyncGeneration(ctx, g, hypotheses["bold"], []generation.Result{{StrategyID: "bold", ResultID: "r2"}})

	variant, _ := g.Node(variants["bold"])
	fmt.Println(variant.Data.(domain.VariantData).Versions)
	fmt.Println(len(eng.Lineage(g, variant.ID).Nodes()))
	fmt.Println(eng.IsValidConnection(domain.NodeVariant, domain.NodeCompiler))
	// Output:
	// [r1 r2]
	// 4
	// false
}
