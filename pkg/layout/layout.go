package layout

import (
	"math"
	"sort"

	"github.com/aretw0/lattice/pkg/domain"
)

// Apply returns nodes with positions computed from the topology of edges.
// The result keeps the input order; the input slice is not modified.
func Apply(nodes []domain.Node, edges []domain.Edge, opts Options) []domain.Node {
	out := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	if len(nodes) == 0 {
		return out
	}
	opts = opts.normalized()

	t := newTopology(out, edges)
	rank := t.applyOverrides(t.longestPath(), opts.DefaultOutputRank)
	layers := t.order(rank)

	x, y := t.place(layers, opts)
	t.nudge(layers, y)

	minY := math.Inf(1)
	for _, v := range y {
		minY = math.Min(minY, v)
	}
	shift := opts.TopMargin - minY
	cols := snapColumns(layers, x, opts.GridPitch)
	for i := range out {
		out[i].Position = domain.Position{
			X: cols[i],
			Y: Snap(y[i]+shift, opts.GridPitch),
		}
	}
	return out
}

// snapColumns snaps the column X of every layer to the grid. Each column
// lands at least one pitch right of the previous one, so narrow nodes with
// no gap cannot collapse two ranks onto the same X.
func snapColumns(layers [][]int, x []float64, pitch float64) []float64 {
	out := make([]float64, len(x))
	prev := math.Inf(-1)
	for _, layer := range layers {
		col := Snap(x[layer[0]], pitch)
		if col <= prev {
			col = prev + pitch
		}
		for _, n := range layer {
			out[n] = col
		}
		prev = col
	}
	return out
}

// order groups nodes into layers by rank and orders each layer.
func (t *topology) order(rank []int) [][]int {
	byRank := make(map[int][]int)
	for i := range t.nodes {
		byRank[rank[i]] = append(byRank[rank[i]], i)
	}
	ranks := make([]int, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	layers := make([][]int, 0, len(ranks))
	slot := make(map[int]int, len(t.nodes))
	for li, r := range ranks {
		layer := byRank[r]
		if li == 0 {
			sort.SliceStable(layer, func(a, b int) bool {
				return t.nodes[layer[a]].Type.Priority() < t.nodes[layer[b]].Type.Priority()
			})
		} else {
			bary := make(map[int]float64, len(layer))
			for _, n := range layer {
				sum, count := 0.0, 0
				for _, p := range t.pred[n] {
					if s, ok := slot[p]; ok {
						sum += float64(s)
						count++
					}
				}
				if count == 0 {
					bary[n] = math.Inf(1)
				} else {
					bary[n] = sum / float64(count)
				}
			}
			sort.SliceStable(layer, func(a, b int) bool {
				ba, bb := bary[layer[a]], bary[layer[b]]
				if ba != bb {
					return ba < bb
				}
				return t.nodes[layer[a]].Type.Priority() < t.nodes[layer[b]].Type.Priority()
			})
		}
		for pos, n := range layer {
			slot[n] = pos
		}
		layers = append(layers, layer)
	}
	return layers
}

// place computes raw column X and centred stack Y for every node.
func (t *topology) place(layers [][]int, opts Options) (x, y []float64) {
	x = make([]float64, len(t.nodes))
	y = make([]float64, len(t.nodes))

	stacks := make([]float64, len(layers))
	tallest := 0.0
	for li, layer := range layers {
		h := 0.0
		for _, n := range layer {
			h += t.nodes[n].Height()
		}
		h += opts.NodeSpacing * float64(len(layer)-1)
		stacks[li] = h
		tallest = math.Max(tallest, h)
	}

	colX := 0.0
	for li, layer := range layers {
		widest := 0.0
		cursor := (tallest - stacks[li]) / 2
		for _, n := range layer {
			x[n] = colX
			y[n] = cursor
			cursor += t.nodes[n].Height() + opts.NodeSpacing
			widest = math.Max(widest, t.nodes[n].Width())
		}
		colX = NextColumnX(colX, widest, opts.ColumnGap)
	}
	return x, y
}

// nudge moves each single-node layer toward the mean vertical centre of its
// neighbours. Layers are visited left to right so chains settle in one pass.
func (t *topology) nudge(layers [][]int, y []float64) {
	for _, layer := range layers {
		if len(layer) != 1 {
			continue
		}
		n := layer[0]
		sum, count := 0.0, 0
		for _, group := range [][]int{t.pred[n], t.succ[n]} {
			for _, m := range group {
				sum += y[m] + t.nodes[m].Height()/2
				count++
			}
		}
		if count == 0 {
			continue
		}
		y[n] = sum/float64(count) - t.nodes[n].Height()/2
	}
}

// NextColumnX is the column convention shared with generation sync: the next
// column starts one gap after the widest node of the previous one.
func NextColumnX(prevX, widest, gap float64) float64 {
	return prevX + widest + gap
}

// Snap rounds v to the nearest multiple of pitch.
func Snap(v, pitch float64) float64 {
	if pitch <= 0 {
		return v
	}
	s := math.Round(v/pitch) * pitch
	if s == 0 {
		return 0
	}
	return s
}
