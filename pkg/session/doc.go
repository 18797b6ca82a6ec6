/*
Package session coordinates access to persisted canvases.

The Manager serializes read-modify-write sequences per canvas with
reference-counted in-process locks, optionally backed by a distributed
locker when several replicas share a store. Every load passes through the
migrator, so callers always see the current snapshot shape.
*/
package session
