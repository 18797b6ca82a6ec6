package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lineage"
)

// GraphOverlay highlights a selection and its lineage.
type GraphOverlay struct {
	Selected string
	Lineage  lineage.Result
}

// NewOverlay traces the lineage of selected over g.
func NewOverlay(g domain.Graph, selected string) *GraphOverlay {
	return &GraphOverlay{Selected: selected, Lineage: lineage.Trace(g.Edges, selected)}
}

// GenerateMermaid produces a left-to-right Mermaid flowchart of the canvas.
// It applies semantic styling by role:
// - Input: [/Parallelogram/]
// - Processing: [[Subroutine]]
// - Output: ([Stadium])
// - Unknown types: [Rectangle]
// Config edges are dotted and feedback edges thick. Edges that are not
// idle carry their status as a label.
func GenerateMermaid(g domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range g.Nodes {
		opener, closer := "[", "]"
		if node.Type.Known() {
			switch node.Type.Role() {
			case domain.RoleInput:
				opener, closer = "[/", "/]"
			case domain.RoleProcessing:
				opener, closer = "[[", "]]"
			case domain.RoleOutput:
				opener, closer = "([", "])"
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, label(node), closer)
	}

	for _, e := range g.Edges {
		arrow := "-->"
		switch e.Type {
		case domain.EdgeConfig:
			arrow = "-.->"
		case domain.EdgeFeedback:
			arrow = "==>"
		}
		if e.Status != "" && e.Status != domain.EdgeIdle {
			switch e.Type {
			case domain.EdgeConfig:
				arrow = fmt.Sprintf("-. \"%s\" .->", e.Status)
			case domain.EdgeFeedback:
				arrow = fmt.Sprintf("== \"%s\" ==>", e.Status)
			default:
				arrow = fmt.Sprintf("-- \"%s\" -->", e.Status)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target))
	}

	if overlay != nil && overlay.Selected != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on either theme.
		sb.WriteString("    classDef lineage fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, id := range overlay.Lineage.Nodes() {
			if id != overlay.Selected {
				fmt.Fprintf(&sb, "    class %s lineage;\n", sanitizeMermaidID(id))
			}
		}
		fmt.Fprintf(&sb, "    class %s selected;\n", sanitizeMermaidID(overlay.Selected))

		var links []string
		for i, e := range g.Edges {
			if overlay.Lineage.EdgeIDs[e.ID] {
				links = append(links, fmt.Sprint(i))
			}
		}
		if len(links) > 0 {
			fmt.Fprintf(&sb, "    linkStyle %s stroke:#01579b,stroke-width:3px;\n", strings.Join(links, ","))
		}
	}

	return sb.String()
}

// label is the node ID followed by the most telling payload field.
func label(n domain.Node) string {
	var extra string
	switch d := n.Data.(type) {
	case domain.SectionData:
		extra = d.Title
	case domain.HypothesisData:
		extra = d.Name
	case domain.VariantData:
		if d.ActiveResultID != "" {
			extra = fmt.Sprintf("%s (%d)", d.ActiveResultID, len(d.Versions))
		}
		if d.Archived() {
			extra = strings.TrimSpace(extra + " pinned")
		}
	case domain.ModelData:
		extra = d.Model
	}
	text := n.ID
	if extra != "" {
		text = fmt.Sprintf("%s <br/> %s", n.ID, extra)
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
