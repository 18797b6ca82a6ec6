package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Results implements ports.ResultStore over a map.
type Results struct {
	mu   sync.RWMutex
	refs map[string]ports.ResultRef
}

// NewResults seeds a result store.
func NewResults(refs ...ports.ResultRef) *Results {
	r := &Results{refs: make(map[string]ports.ResultRef, len(refs))}
	for _, ref := range refs {
		r.refs[ref.ID] = ref
	}
	return r
}

// Put records a result.
func (r *Results) Put(ref ports.ResultRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[ref.ID] = ref
}

func (r *Results) Result(ctx context.Context, resultID string) (ports.ResultRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.refs[resultID]
	if !ok {
		return ports.ResultRef{}, domain.ErrResultNotFound
	}
	return ref, nil
}

func (r *Results) Results(ctx context.Context) ([]ports.ResultRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ports.ResultRef, 0, len(r.refs))
	for _, ref := range r.refs {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Spec implements ports.SpecStore over a map.
type Spec map[string]string

func (s Spec) Section(ctx context.Context, sectionID string) (string, error) {
	content, ok := s[sectionID]
	if !ok {
		return "", domain.ErrSectionNotFound
	}
	return content, nil
}
