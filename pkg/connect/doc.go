// Package connect holds the directional compatibility matrix between node
// types and the rules that wire new nodes into an existing graph.
//
// Nothing here returns an error: an invalid or duplicate connection is
// reported as a false result and leaves the graph untouched.
package connect
