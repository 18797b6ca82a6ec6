package canvas

import (
	"slices"

	"github.com/aretw0/lattice/pkg/domain"
)

// PruneStrategies removes hypothesis and live variant nodes whose strategy is
// not in live. Archived variants and nodes never bound to a strategy survive.
// It returns the IDs of removed nodes.
func PruneStrategies(g domain.Graph, live []string) (domain.Graph, []string) {
	alive := make(map[string]bool, len(live))
	for _, s := range live {
		alive[s] = true
	}

	doomed := map[string]bool{}
	for _, n := range g.Nodes {
		switch d := n.Data.(type) {
		case domain.HypothesisData:
			if d.StrategyID != "" && !alive[d.StrategyID] {
				doomed[n.ID] = true
			}
		case domain.VariantData:
			if d.StrategyID != "" && !alive[d.StrategyID] && !d.Archived() {
				doomed[n.ID] = true
			}
		}
	}
	return without(g, doomed), sortedIDs(doomed)
}

// PruneResults drops result IDs that are not in live from every variant's
// history. A variant left without versions is removed; one whose active
// result vanished falls back to its newest remaining version.
func PruneResults(g domain.Graph, live []string) (domain.Graph, []string) {
	alive := make(map[string]bool, len(live))
	for _, r := range live {
		alive[r] = true
	}

	out := g.Clone()
	doomed := map[string]bool{}
	for i, n := range out.Nodes {
		v, ok := n.Data.(domain.VariantData)
		if !ok || len(v.Versions) == 0 {
			continue
		}
		v.Versions = slices.DeleteFunc(v.Versions, func(r string) bool { return !alive[r] })
		if len(v.Versions) == 0 {
			doomed[n.ID] = true
			continue
		}
		if !alive[v.ActiveResultID] {
			v.ActiveResultID = v.Versions[len(v.Versions)-1]
		}
		out.Nodes[i].Data = v
	}
	return without(out, doomed), sortedIDs(doomed)
}

func sortedIDs(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
