// Package schema describes and decodes node payloads.
//
// Each node type has a field schema listing the keys its payload accepts.
// Partial updates are validated against it before being merged into the
// typed payload:
//
//	merged, err := schema.Merge(node.Type, node.Data, map[string]any{
//	    "content": "Ship a calmer checkout.",
//	})
//
// The same decoding rules turn untyped snapshot state (as produced by the
// migrator) back into domain values. Decoding goes through mapstructure
// using the json tags of the domain types, so field names match the
// persisted JSON exactly.
package schema
