package http

import (
	"encoding/json"
	"net/http"

	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lineage"
)

// LayoutRequest is the body of POST /layout.
type LayoutRequest struct {
	Nodes []domain.Node `json:"nodes"`
	Edges []domain.Edge `json:"edges"`
	Gap   float64       `json:"gap,omitempty"`
}

// LineageRequest is the body of POST /lineage. When nodes are given, edges
// that reference other IDs are ignored.
type LineageRequest struct {
	Nodes []domain.Node `json:"nodes,omitempty"`
	Edges []domain.Edge `json:"edges"`
	Seed  string        `json:"seed"`
}

// MigrateRequest is the body of POST /migrate: a stored envelope.
type MigrateRequest = domain.Envelope

// Layout handles the POST /layout request.
func (s *Server) Layout(w http.ResponseWriter, r *http.Request) {
	var body LayoutRequest
	if !s.decode(w, r, &body, "Layout") {
		return
	}
	nodes := s.Engine.Layout(r.Context(), body.Nodes, body.Edges, body.Gap)
	s.writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

// Lineage handles the POST /lineage request.
func (s *Server) Lineage(w http.ResponseWriter, r *http.Request) {
	var body LineageRequest
	if !s.decode(w, r, &body, "Lineage") {
		return
	}
	if len(body.Nodes) == 0 {
		s.writeJSON(w, http.StatusOK, lineage.Trace(body.Edges, body.Seed))
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Lineage(domain.Graph{Nodes: body.Nodes, Edges: body.Edges}, body.Seed))
}

// Audit handles the POST /audit request with a graph body.
func (s *Server) Audit(w http.ResponseWriter, r *http.Request) {
	var g domain.Graph
	if !s.decode(w, r, &g, "Audit") {
		return
	}
	violations := s.Engine.Audit(g)
	if violations == nil {
		violations = []connect.Violation{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"violations": violations})
}

// Migrate handles the POST /migrate request. The response is always a
// current-version snapshot, empty when the input could not be migrated.
func (s *Server) Migrate(w http.ResponseWriter, r *http.Request) {
	var body MigrateRequest
	if !s.decode(w, r, &body, "Migrate") {
		return
	}
	if len(body.Snapshot) == 0 {
		body.Snapshot = json.RawMessage("null")
	}
	snap := s.Engine.Migrate(r.Context(), body.Snapshot, body.Version)
	s.writeJSON(w, http.StatusOK, snap)
}
