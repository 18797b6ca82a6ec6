package layout

import "github.com/aretw0/lattice/pkg/domain"

// Options tunes the fixed constants of a layout pass.
type Options struct {
	ColumnGap         float64 `yaml:"column_gap" json:"columnGap"`
	GridPitch         float64 `yaml:"grid_pitch" json:"gridPitch"`
	TopMargin         float64 `yaml:"top_margin" json:"topMargin"`
	NodeSpacing       float64 `yaml:"node_spacing" json:"nodeSpacing"`
	DefaultOutputRank int     `yaml:"default_output_rank" json:"defaultOutputRank"`
}

const (
	DefaultGridPitch   = 20
	DefaultTopMargin   = 40
	DefaultNodeSpacing = 40
	// DefaultOutputRank is where disconnected outputs land when no wired sibling exists.
	DefaultOutputRank = 3
)

// DefaultOptions returns the canvas defaults.
func DefaultOptions() Options {
	return Options{
		ColumnGap:         domain.DefaultLayoutGap,
		GridPitch:         DefaultGridPitch,
		TopMargin:         DefaultTopMargin,
		NodeSpacing:       DefaultNodeSpacing,
		DefaultOutputRank: DefaultOutputRank,
	}
}

// WithGap returns a copy of o using gap as column gap. Non-positive gaps keep the current value.
func (o Options) WithGap(gap float64) Options {
	if gap > 0 {
		o.ColumnGap = gap
	}
	return o
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ColumnGap < 0 {
		o.ColumnGap = 0
	}
	if o.GridPitch <= 0 {
		o.GridPitch = d.GridPitch
	}
	if o.NodeSpacing < 0 {
		o.NodeSpacing = 0
	}
	if o.DefaultOutputRank < 0 {
		o.DefaultOutputRank = d.DefaultOutputRank
	}
	return o
}
