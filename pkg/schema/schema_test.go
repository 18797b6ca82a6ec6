package schema

import (
	"errors"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
)

func TestValidatePartial_Success(t *testing.T) {
	err := ValidatePartial(For(domain.NodeVariant), map[string]any{
		"activeResultId": "r2",
		"versions":       []any{"r1", "r2"},
	})
	if err != nil {
		t.Errorf("ValidatePartial() error = %v, want nil", err)
	}
}

func TestValidatePartial_UnknownAndWrongType(t *testing.T) {
	err := ValidatePartial(For(domain.NodeDesignBrief), map[string]any{
		"content": 42,
		"colour":  "red",
	})
	if err == nil {
		t.Fatal("ValidatePartial() should fail")
	}

	errs := ValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("ValidationErrors() = %d errors, want 2", len(errs))
	}
	var first *ValidationError
	if !errors.As(errs[0], &first) || first.Key != "colour" {
		t.Errorf("first error = %v, want field colour", errs[0])
	}
}

func TestValidatePartial_Temperature(t *testing.T) {
	if err := ValidatePartial(For(domain.NodeModel), map[string]any{"temperature": 0.7}); err != nil {
		t.Errorf("temperature 0.7 rejected: %v", err)
	}
	if err := ValidatePartial(For(domain.NodeModel), map[string]any{"temperature": 3.0}); err == nil {
		t.Error("temperature 3.0 accepted")
	}
}

func TestMerge(t *testing.T) {
	current := domain.SectionData{Title: "Brief", Content: "old"}
	merged, err := Merge(domain.NodeDesignBrief, current, map[string]any{"content": "new"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	want := domain.SectionData{Title: "Brief", Content: "new"}
	if merged != want {
		t.Errorf("Merge() = %#v, want %#v", merged, want)
	}
}

func TestMerge_DoesNotAliasVersions(t *testing.T) {
	current := domain.VariantData{StrategyID: "s1", Versions: []string{"r1", "r2"}}
	merged, err := Merge(domain.NodeVariant, current, map[string]any{"versions": []any{"x"}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got := merged.(domain.VariantData).Versions; len(got) != 1 || got[0] != "x" {
		t.Errorf("merged versions = %v", got)
	}
	if current.Versions[0] != "r1" {
		t.Errorf("original payload was modified: %v", current.Versions)
	}
}

func TestMerge_NoSchema(t *testing.T) {
	_, err := Merge(domain.NodeType("legacy"), domain.UnknownData{}, map[string]any{"a": 1})
	if !errors.Is(err, ErrNoSchema) {
		t.Errorf("Merge() error = %v, want ErrNoSchema", err)
	}
}

func TestDecodeSnapshot(t *testing.T) {
	state := map[string]any{
		"nodes": []any{
			map[string]any{
				"id":       "v1",
				"type":     "variant",
				"position": map[string]any{"x": 10.0, "y": "20"},
				"data":     map[string]any{"strategyId": "s1", "versions": []any{"r1"}, "stale": true},
			},
		},
		"edges": []any{
			map[string]any{"id": "e1", "source": "h1", "target": "v1", "status": "complete"},
		},
		"viewport":          map[string]any{"x": 1.0, "y": 2.0, "zoom": 0.5},
		"layoutGapPixels":   80.0,
		"autoLayoutEnabled": false,
	}

	snap, err := DecodeSnapshot(state)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if len(snap.Nodes) != 1 || snap.Nodes[0].StrategyID() != "s1" {
		t.Fatalf("nodes = %#v", snap.Nodes)
	}
	if snap.Nodes[0].Position.Y != 20 {
		t.Errorf("position.y = %v, want 20", snap.Nodes[0].Position.Y)
	}
	if snap.Edges[0].Status != domain.EdgeComplete {
		t.Errorf("edge status = %q", snap.Edges[0].Status)
	}
	if snap.Viewport.Zoom != 0.5 || snap.LayoutGapPixels != 80 || snap.AutoLayoutEnabled {
		t.Errorf("snapshot fields = %#v", snap)
	}
}
