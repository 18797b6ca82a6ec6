package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
)

func node(id string, typ domain.NodeType, data domain.Payload) domain.Node {
	if data == nil {
		data = domain.NewPayload(typ)
	}
	return domain.Node{ID: id, Type: typ, Data: data}
}

func TestGenerateMermaid(t *testing.T) {
	brief := node("brief", domain.NodeDesignBrief, domain.SectionData{Title: "Bakery"})
	model := node("model", domain.NodeModel, domain.ModelData{Model: "gpt"})
	compiler := node("compiler-1", domain.NodeCompiler, nil)
	hyp := node("hyp", domain.NodeHypothesis, domain.HypothesisData{StrategyID: "s1", Name: `Say "hi"`})
	variant := node("v.1", domain.NodeVariant, domain.VariantData{StrategyID: "s1", ActiveResultID: "r2", Versions: []string{"r1", "r2"}})
	critique := node("crit", domain.NodeCritique, nil)

	processing := domain.NewEdge(hyp, variant)
	processing.Status = domain.EdgeProcessing

	tests := []struct {
		name     string
		graph    domain.Graph
		contains []string
	}{
		{
			name:  "Role Shapes",
			graph: domain.Graph{Nodes: []domain.Node{brief, compiler, variant, {ID: "odd", Type: "legacy"}}},
			contains: []string{
				`brief[/"brief <br/> Bakery"/]`,
				`compiler_1[["compiler-1"]]`,
				`v_1(["v.1 <br/> r2 (2)"])`,
				`odd["odd"]`,
			},
		},
		{
			name: "Edge Styles",
			graph: domain.Graph{
				Nodes: []domain.Node{model, compiler, variant, critique, hyp},
				Edges: []domain.Edge{domain.NewEdge(model, compiler), domain.NewEdge(variant, critique), processing},
			},
			contains: []string{
				"model -.-> compiler_1",
				"v_1 ==> crit",
				`hyp -- "processing" --> v_1`,
				`hyp[["hyp <br/> Say 'hi'"]]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.graph, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	brief := node("brief", domain.NodeDesignBrief, nil)
	compiler := node("compiler", domain.NodeCompiler, nil)
	lonely := node("lonely", domain.NodeCritique, nil)
	g := domain.Graph{
		Nodes: []domain.Node{brief, compiler, lonely},
		Edges: []domain.Edge{domain.NewEdge(brief, compiler)},
	}

	got := graph.GenerateMermaid(g, graph.NewOverlay(g, "compiler"))
	for _, want := range []string{
		"class brief lineage;",
		"class compiler selected;",
		"linkStyle 0 stroke:#01579b",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
	if strings.Contains(got, "class lonely") {
		t.Errorf("node outside the lineage was highlighted:\n%v", got)
	}
}
