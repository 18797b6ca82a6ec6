package connect

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// Pair is an ordered (source, target) type combination.
type Pair struct {
	Source domain.NodeType `json:"source"`
	Target domain.NodeType `json:"target"`
}

var sections = []domain.NodeType{
	domain.NodeDesignBrief,
	domain.NodeExistingDesign,
	domain.NodeResearchContext,
	domain.NodeObjectivesMetrics,
	domain.NodeDesignConstraints,
}

var matrix = buildMatrix()

func buildMatrix() map[Pair]bool {
	m := map[Pair]bool{
		{domain.NodeCritique, domain.NodeCompiler}:       true,
		{domain.NodeModel, domain.NodeCompiler}:          true,
		{domain.NodeModel, domain.NodeDesignSystem}:      true,
		{domain.NodeModel, domain.NodeHypothesis}:        true,
		{domain.NodeDesignSystem, domain.NodeCompiler}:   true,
		{domain.NodeDesignSystem, domain.NodeHypothesis}: true,
		{domain.NodeCompiler, domain.NodeHypothesis}:     true,
		{domain.NodeHypothesis, domain.NodeVariant}:      true,
		{domain.NodeVariant, domain.NodeCritique}:        true,
	}
	for _, s := range sections {
		m[Pair{s, domain.NodeCompiler}] = true
	}
	return m
}

// IsValidConnection reports whether an edge from a node of type source to a
// node of type target is allowed. The relation is not symmetric.
func IsValidConnection(source, target domain.NodeType) bool {
	return matrix[Pair{source, target}]
}

// Matrix returns the full compatibility table over the node taxonomy,
// including the false entries.
func Matrix() map[Pair]bool {
	types := domain.NodeTypes()
	out := make(map[Pair]bool, len(types)*len(types))
	for _, s := range types {
		for _, t := range types {
			out[Pair{s, t}] = matrix[Pair{s, t}]
		}
	}
	return out
}
