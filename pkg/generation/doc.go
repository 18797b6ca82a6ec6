// Package generation reconciles externally produced results onto the graph.
//
// Generation requests run outside this module. When they report back, Sync
// stacks each result onto the variant node already bound to its strategy, or
// grows a new variant one column to the right of the source. The returned
// strategy-to-node map lets a per-result completion callback find its node
// without rescanning the graph.
package generation
