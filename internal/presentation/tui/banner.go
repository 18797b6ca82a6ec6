package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Lattice banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _          _   _   _          ", "#818cf8"},
		{" | |    __ _| |_| |_(_) ___ ___ ", "#a78bfa"},
		{" | |   / _` | __| __| |/ __/ _ \\", "#c084fc"},
		{" | |__| (_| | |_| |_| | (_|  __/", "#e879f9"},
		{" |_____\\__,_|\\__|\\__|_|\\___\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Highlight colours ids that belong to a lineage selection.
func Highlight(id string, selected, inLineage bool) string {
	p := termenv.ColorProfile()
	switch {
	case selected:
		return termenv.String(id).Bold().Foreground(p.Color("#fbc02d")).String()
	case inLineage:
		return termenv.String(id).Foreground(p.Color("#4fc3f7")).String()
	}
	return termenv.String(id).Faint().String()
}
