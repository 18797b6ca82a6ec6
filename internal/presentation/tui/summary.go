package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
)

// Summary describes a canvas as markdown: nodes grouped by role, edge
// statuses and any connection rule violations.
func Summary(name string, snap *domain.Snapshot) string {
	g := snap.Graph()
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Canvas %s\n\n", name)
	fmt.Fprintf(&sb, "%d nodes, %d edges, column gap %.0fpx, auto-layout %s.\n\n",
		len(g.Nodes), len(g.Edges), snap.LayoutGapPixels, onOff(snap.AutoLayoutEnabled))

	byRole := make(map[domain.Role][]domain.Node)
	var unknown []domain.Node
	for _, n := range g.Nodes {
		if !n.Type.Known() {
			unknown = append(unknown, n)
			continue
		}
		byRole[n.Type.Role()] = append(byRole[n.Type.Role()], n)
	}

	for _, role := range []domain.Role{domain.RoleInput, domain.RoleProcessing, domain.RoleOutput} {
		nodes := byRole[role]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n| id | type | detail |\n|---|---|---|\n", heading(role))
		for _, n := range nodes {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", n.ID, n.Type, detail(n))
		}
		sb.WriteString("\n")
	}
	if len(unknown) > 0 {
		sb.WriteString("## Unknown\n\n")
		for _, n := range unknown {
			fmt.Fprintf(&sb, "- %s (`%s`)\n", n.ID, n.Type)
		}
		sb.WriteString("\n")
	}

	if len(g.Edges) > 0 {
		counts := make(map[domain.EdgeStatus]int)
		for _, e := range g.Edges {
			counts[e.Status]++
		}
		statuses := make([]string, 0, len(counts))
		for s, c := range counts {
			statuses = append(statuses, fmt.Sprintf("%s: %d", s, c))
		}
		sort.Strings(statuses)
		fmt.Fprintf(&sb, "## Edges\n\n%s\n\n", strings.Join(statuses, ", "))
	}

	if violations := connect.Audit(g); len(violations) > 0 {
		sb.WriteString("## Violations\n\n")
		for _, v := range violations {
			fmt.Fprintf(&sb, "- `%s` %s -> %s: %s\n", v.Edge.ID, v.Edge.Source, v.Edge.Target, v.Reason)
		}
	}
	return sb.String()
}

func detail(n domain.Node) string {
	switch d := n.Data.(type) {
	case domain.SectionData:
		if d.Content == "" {
			return "_empty_"
		}
		return fmt.Sprintf("%d chars", len(d.Content))
	case domain.ModelData:
		return strings.TrimPrefix(d.Provider+"/"+d.Model, "/")
	case domain.HypothesisData:
		return fmt.Sprintf("%s %s", d.StrategyID, d.Name)
	case domain.VariantData:
		s := fmt.Sprintf("%s, %d versions", d.ActiveResultID, len(d.Versions))
		if d.Archived() {
			s += ", pinned"
		}
		return s
	}
	return ""
}

func heading(r domain.Role) string {
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
