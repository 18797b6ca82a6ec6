// Package api embeds the OpenAPI description of the lattice HTTP API.
package api

import _ "embed"

// Spec is the OpenAPI 3 document served at /openapi.yaml and used to
// validate incoming requests.
//
//go:embed openapi.yaml
var Spec []byte
