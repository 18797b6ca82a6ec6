/*
Package ports defines the driven ports (interfaces) around the canvas engine.

The graph engine itself performs no I/O. These interfaces describe the
collaborators a host wires around it: where snapshots live, and the
read-only stores the migrator consults while upgrading old snapshots.

# Key Interfaces

  - SnapshotStore: persists versioned canvas snapshots by canvas ID.
  - ResultStore: read-only lookup of generation results ({id, strategyId}).
  - SpecStore: read-only lookup of section content by section ID.
  - DistributedLocker: distributed locking for concurrent canvas edits.
*/
package ports
