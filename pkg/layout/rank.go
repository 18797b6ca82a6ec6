package layout

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// topology is the adjacency view of a graph restricted to known nodes.
type topology struct {
	nodes []domain.Node
	index map[string]int
	succ  [][]int
	pred  [][]int
}

func newTopology(nodes []domain.Node, edges []domain.Edge) *topology {
	t := &topology{
		nodes: nodes,
		index: make(map[string]int, len(nodes)),
		succ:  make([][]int, len(nodes)),
		pred:  make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		if _, dup := t.index[n.ID]; !dup {
			t.index[n.ID] = i
		}
	}
	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		s, okS := t.index[e.Source]
		d, okD := t.index[e.Target]
		if !okS || !okD || s == d || seen[[2]int{s, d}] {
			continue
		}
		seen[[2]int{s, d}] = true
		t.succ[s] = append(t.succ[s], d)
		t.pred[d] = append(t.pred[d], s)
	}
	return t
}

type frame struct {
	node int
	next int
	best int
}

// longestPath labels every node with 1 + the highest rank of its predecessors.
// The walk is an explicit stack so deep chains cannot exhaust the goroutine stack.
func (t *topology) longestPath() []int {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]int, len(t.nodes))
	rank := make([]int, len(t.nodes))

	for root := range t.nodes {
		if state[root] != unvisited {
			continue
		}
		state[root] = onStack
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(t.pred[f.node]) {
				p := t.pred[f.node][f.next]
				f.next++
				switch state[p] {
				case done:
					f.best = max(f.best, rank[p]+1)
				case onStack:
					// Cycle: the ancestor reports rank 0.
					f.best = max(f.best, 1)
				default:
					state[p] = onStack
					stack = append(stack, frame{node: p})
				}
				continue
			}

			rank[f.node] = f.best
			state[f.node] = done
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.best = max(parent.best, rank[f.node]+1)
			}
		}
	}
	return rank
}

// applyOverrides pins config-like sources next to what they feed and lines
// disconnected outputs up with their wired siblings.
func (t *topology) applyOverrides(base []int, defaultOutputRank int) []int {
	rank := make([]int, len(base))
	copy(rank, base)

	for i, n := range t.nodes {
		if n.Type.Role() != domain.RoleProcessing || len(t.pred[i]) > 0 || len(t.succ[i]) == 0 {
			continue
		}
		lowest := -1
		for _, s := range t.succ[i] {
			if lowest < 0 || base[s] < lowest {
				lowest = base[s]
			}
		}
		rank[i] = max(lowest-1, 0)
	}

	siblingRank := make(map[domain.NodeType]int)
	for i, n := range t.nodes {
		if n.Type.Role() != domain.RoleOutput || len(t.pred[i]) == 0 {
			continue
		}
		if r, ok := siblingRank[n.Type]; !ok || rank[i] > r {
			siblingRank[n.Type] = rank[i]
		}
	}
	for i, n := range t.nodes {
		if n.Type.Role() != domain.RoleOutput || len(t.pred[i]) > 0 {
			continue
		}
		if r, ok := siblingRank[n.Type]; ok {
			rank[i] = r
		} else {
			rank[i] = defaultOutputRank
		}
	}
	return rank
}

// Ranks returns the final rank of every known node, keyed by ID.
func Ranks(nodes []domain.Node, edges []domain.Edge, opts Options) map[string]int {
	opts = opts.normalized()
	t := newTopology(nodes, edges)
	rank := t.applyOverrides(t.longestPath(), opts.DefaultOutputRank)
	out := make(map[string]int, len(t.index))
	for id, i := range t.index {
		out[id] = rank[i]
	}
	return out
}
