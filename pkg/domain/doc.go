/*
Package domain contains the core data model of the canvas graph engine.

It defines the closed node taxonomy, the typed node payloads, edges and the
persisted snapshot shape. The package is kept pure: no I/O, no persistence,
no rendering. Every mutation elsewhere in the module takes a Graph value and
returns a new one.

# Key Entities

  - NodeType: one of eleven kinds, grouped into input, processing and output roles.
  - Node: a pipeline stage with a position, an optional measured size and a Payload.
  - Payload: a tagged union keyed by NodeType, accessed through a type switch.
  - Edge: a directed connection with a deterministic ID and a generation status.
  - Snapshot: the versioned persisted shape of a canvas.
*/
package domain
