package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// State is a snapshot decoded as untyped JSON.
type State map[string]any

// Env carries the read-only collaborators available to steps.
// Either store may be nil.
type Env struct {
	Results ports.ResultStore
	Spec    ports.SpecStore
	Logger  *slog.Logger
}

// Step upgrades state written at version From to version From+1.
type Step struct {
	From  int
	Name  string
	Apply func(ctx context.Context, s State, env Env) (State, error)
}

// Steps returns the ordered migration chain ending at
// domain.CurrentSnapshotVersion.
func Steps() []Step {
	return []Step{
		{From: 1, Name: "split-sections", Apply: splitSections},
		{From: 2, Name: "version-stacks", Apply: versionStacks},
		{From: 3, Name: "canvas-settings", Apply: canvasSettings},
		{From: 4, Name: "canonical-edges", Apply: canonicalEdges},
	}
}

// Legacy node types renamed in v2.
var typeAliases = map[string]domain.NodeType{
	"generator": domain.NodeCompiler,
	"output":    domain.NodeVariant,
}

// splitSections turns the generic "section" node into one node type per
// section and resolves renamed types. Only the first node of a section survives.
func splitSections(_ context.Context, s State, env Env) (State, error) {
	nodes, err := nodeList(s)
	if err != nil {
		return nil, err
	}
	seen := make(map[domain.NodeType]bool)
	kept := make([]any, 0, len(nodes))
	for _, n := range nodes {
		typ, _ := n["type"].(string)
		if alias, ok := typeAliases[typ]; ok {
			n["type"] = string(alias)
			typ = string(alias)
		}
		if typ == "section" {
			data := dataOf(n)
			sectionID, _ := data["sectionId"].(string)
			t := domain.NodeType(sectionID)
			if !t.IsSection() {
				env.Logger.Debug("dropping section node with unknown section", "node_id", n["id"], "section", sectionID)
				continue
			}
			delete(data, "sectionId")
			n["type"] = sectionID
			typ = sectionID
		}
		if t := domain.NodeType(typ); t.IsSection() {
			if seen[t] {
				env.Logger.Debug("dropping duplicate section node", "node_id", n["id"], "section", typ)
				continue
			}
			seen[t] = true
		}
		kept = append(kept, n)
	}
	s["nodes"] = kept
	return s, nil
}

// versionStacks replaces the single variant result with a version stack and
// recovers missing strategy ids from the result store.
func versionStacks(ctx context.Context, s State, env Env) (State, error) {
	nodes, err := nodeList(s)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n["type"] != string(domain.NodeVariant) {
			continue
		}
		data := dataOf(n)
		if legacy, ok := data["resultId"].(string); ok {
			if _, has := data["activeResultId"]; !has && legacy != "" {
				data["activeResultId"] = legacy
			}
			delete(data, "resultId")
		}
		active, _ := data["activeResultId"].(string)
		if _, has := data["versions"]; !has {
			versions := []any{}
			if active != "" {
				versions = append(versions, active)
			}
			data["versions"] = versions
		}
		if sid, _ := data["strategyId"].(string); sid != "" || active == "" || env.Results == nil {
			continue
		}
		ref, err := env.Results.Result(ctx, active)
		switch {
		case errors.Is(err, domain.ErrResultNotFound):
			env.Logger.Debug("no result for variant", "node_id", n["id"], "result_id", active)
		case err != nil:
			env.Logger.Warn("result lookup failed", "node_id", n["id"], "result_id", active, "err", err)
		case ref.StrategyID != "":
			data["strategyId"] = ref.StrategyID
		}
	}
	return s, nil
}

// Canvas-level defaults introduced in v4.
const (
	legacyMiniMap = "showMiniMap"
	legacyGrid    = "showGrid"
)

// canvasSettings backfills section content and moves loose canvas flags
// into their v4 homes.
func canvasSettings(ctx context.Context, s State, env Env) (State, error) {
	nodes, err := nodeList(s)
	if err != nil {
		return nil, err
	}
	if env.Spec != nil {
		for _, n := range nodes {
			typ, _ := n["type"].(string)
			if !domain.NodeType(typ).IsSection() {
				continue
			}
			data := dataOf(n)
			if content, _ := data["content"].(string); content != "" {
				continue
			}
			content, err := env.Spec.Section(ctx, typ)
			switch {
			case errors.Is(err, domain.ErrSectionNotFound):
			case err != nil:
				env.Logger.Warn("section lookup failed", "node_id", n["id"], "section", typ, "err", err)
			default:
				data["content"] = content
			}
		}
	}

	if _, ok := s["layoutGapPixels"]; !ok {
		s["layoutGapPixels"] = float64(domain.DefaultLayoutGap)
	}
	if _, ok := s["autoLayoutEnabled"]; !ok {
		s["autoLayoutEnabled"] = true
	}
	if _, ok := s["viewport"].(map[string]any); !ok {
		s["viewport"] = map[string]any{"x": 0.0, "y": 0.0, "zoom": 1.0}
	}

	flags, ok := s["displayFlags"].(map[string]any)
	if !ok {
		flags = map[string]any{}
	}
	for legacy, flag := range map[string]string{legacyMiniMap: "miniMap", legacyGrid: "grid"} {
		if v, ok := s[legacy].(bool); ok {
			if _, set := flags[flag]; !set {
				flags[flag] = v
			}
		}
		delete(s, legacy)
	}
	s["displayFlags"] = flags
	return s, nil
}

// canonicalEdges drops nodes lacking a unique id along with dangling edges
// and self-links. Edge ids are rewritten to the deterministic form, which
// collapses duplicate ordered pairs.
func canonicalEdges(_ context.Context, s State, env Env) (State, error) {
	nodes, err := nodeList(s)
	if err != nil {
		return nil, err
	}
	types := make(map[string]domain.NodeType, len(nodes))
	keptNodes := make([]any, 0, len(nodes))
	for _, n := range nodes {
		id, _ := n["id"].(string)
		if _, dup := types[id]; id == "" || dup {
			env.Logger.Debug("dropping node without unique id", "node_id", id)
			continue
		}
		typ, _ := n["type"].(string)
		types[id] = domain.NodeType(typ)
		keptNodes = append(keptNodes, n)
	}
	s["nodes"] = keptNodes

	raw, _ := s["edges"].([]any)
	if s["edges"] != nil && raw == nil {
		return nil, fmt.Errorf("edges: expected array, got %T", s["edges"])
	}
	seen := make(map[string]bool, len(raw))
	kept := make([]any, 0, len(raw))
	for _, item := range raw {
		e, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("edge: expected object, got %T", item)
		}
		src, _ := e["source"].(string)
		dst, _ := e["target"].(string)
		srcType, okSrc := types[src]
		dstType, okDst := types[dst]
		if !okSrc || !okDst || src == dst {
			env.Logger.Debug("dropping dangling edge", "edge_id", e["id"], "source", src, "target", dst)
			continue
		}
		id := domain.EdgeID(src, dst)
		if seen[id] {
			continue
		}
		seen[id] = true

		status, _ := e["status"].(string)
		if !domain.EdgeStatus(status).Valid() {
			status = string(domain.EdgeIdle)
		}
		typ, _ := e["type"].(string)
		if typ == "" {
			typ = string(domain.EdgeTypeFor(srcType, dstType))
		}
		kept = append(kept, map[string]any{
			"id":     id,
			"source": src,
			"target": dst,
			"type":   typ,
			"status": status,
		})
	}
	s["edges"] = kept
	return s, nil
}

// nodeList returns the node objects of s, normalizing a missing list to empty.
func nodeList(s State) ([]map[string]any, error) {
	raw, ok := s["nodes"]
	if !ok || raw == nil {
		s["nodes"] = []any{}
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("nodes: expected array, got %T", raw)
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		n, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("node: expected object, got %T", item)
		}
		out = append(out, n)
	}
	return out, nil
}

// dataOf returns the payload map of n, creating it when absent.
func dataOf(n map[string]any) map[string]any {
	data, ok := n["data"].(map[string]any)
	if !ok {
		data = map[string]any{}
		n["data"] = data
	}
	return data
}
