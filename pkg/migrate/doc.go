// Package migrate upgrades persisted canvas snapshots to the current shape.
//
// Migration runs on untyped state: each Step rewrites the decoded JSON of one
// schema version into the next. Only after the last step does the state get
// decoded into a domain.Snapshot. Steps may read the result and spec stores
// to backfill fields that moved out of the canvas, and never write to them.
//
// A snapshot that cannot be decoded or migrated is discarded: Migrate returns
// a fresh empty canvas and reports the loss through the logger and the
// OnMigrate hook.
package migrate
