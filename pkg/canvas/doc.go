// Package canvas implements the structural edits a host performs on a graph:
// adding and removing nodes and edges, merging payload updates, and pruning
// nodes whose backing strategy or result has gone away.
//
// Every function takes a domain.Graph value and returns a new one; the input
// is never modified.
package canvas
