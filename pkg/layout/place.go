package layout

import (
	"github.com/aretw0/lattice/pkg/domain"
)

var roleColumn = map[domain.Role]int{
	domain.RoleInput:      0,
	domain.RoleProcessing: 1,
	domain.RoleOutput:     DefaultOutputRank,
}

// Place suggests a position for a new node of type t when the host gives
// none: the column already used by its role, below the lowest node there.
func Place(nodes []domain.Node, t domain.NodeType, opts Options) domain.Position {
	opts = opts.normalized()
	role := t.Role()

	found := false
	x, bottom := 0.0, 0.0
	for _, n := range nodes {
		if n.Type.Role() != role {
			continue
		}
		if !found || n.Position.X < x {
			x = n.Position.X
		}
		bottom = max(bottom, n.Position.Y+n.Height())
		found = true
	}
	if !found {
		x = float64(roleColumn[role]) * (domain.DefaultNodeWidth + opts.ColumnGap)
		return domain.Position{X: Snap(x, opts.GridPitch), Y: Snap(opts.TopMargin, opts.GridPitch)}
	}
	return domain.Position{X: Snap(x, opts.GridPitch), Y: Snap(bottom+opts.NodeSpacing, opts.GridPitch)}
}
