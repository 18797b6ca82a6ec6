package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/canvas"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/generation"
	"github.com/go-chi/chi/v5"
)

var errBadRequest = errors.New("bad request")

// AddNodeRequest is the body of POST /canvases/{id}/nodes.
type AddNodeRequest struct {
	ID       string           `json:"id,omitempty"`
	Type     domain.NodeType  `json:"type"`
	Position *domain.Position `json:"position,omitempty"`
	Data     json.RawMessage  `json:"data,omitempty"`
}

// AddEdgeRequest is the body of POST /canvases/{id}/edges.
type AddEdgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SyncGenerationRequest is the body of POST /canvases/{id}/generations.
type SyncGenerationRequest struct {
	SourceID string              `json:"sourceId"`
	Results  []generation.Result `json:"results"`
}

// SyncCompilationRequest is the body of POST /canvases/{id}/compilations.
type SyncCompilationRequest struct {
	CompilerID string                `json:"compilerId"`
	Strategies []generation.Strategy `json:"strategies"`
}

// CompleteRequest is the body of POST /canvases/{id}/generations/complete.
type CompleteRequest struct {
	SourceID string            `json:"sourceId"`
	NodeID   string            `json:"nodeId"`
	Status   domain.EdgeStatus `json:"status"`
}

type mutation func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error)

// mutate runs fn on the stored graph of the canvas in the URL under the
// canvas lock, persists the result and broadcasts the diff. A nil response
// from fn answers with the whole snapshot.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, status int, fn mutation) {
	canvasID := chi.URLParam(r, "canvasID")
	var before, after domain.Graph
	var resp any

	snap, err := s.Sessions.Update(r.Context(), canvasID, func(snap *domain.Snapshot) error {
		before = snap.Graph()
		var err error
		after, resp, err = fn(r.Context(), s.Engine.ForSnapshot(snap), before)
		if err != nil {
			return err
		}
		snap.SetGraph(after)
		return nil
	})
	if err != nil {
		s.writeError(w, op, err)
		return
	}

	s.publish(canvasID, before, after)
	if resp == nil {
		resp = snap
	}
	s.writeJSON(w, status, resp)
}

// ListCanvases handles GET /canvases.
func (s *Server) ListCanvases(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, "ListCanvases", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetCanvas handles GET /canvases/{canvasID}.
func (s *Server) GetCanvas(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "canvasID"))
	if err != nil {
		s.writeError(w, "GetCanvas", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// PutCanvas handles PUT /canvases/{canvasID} with a current-version snapshot.
func (s *Server) PutCanvas(w http.ResponseWriter, r *http.Request) {
	var body domain.Snapshot
	if !s.decode(w, r, &body, "PutCanvas") {
		return
	}
	if body.Nodes == nil {
		body.Nodes = []domain.Node{}
	}
	if body.Edges == nil {
		body.Edges = []domain.Edge{}
	}
	canvasID := chi.URLParam(r, "canvasID")
	var before domain.Graph
	snap, err := s.Sessions.Update(r.Context(), canvasID, func(snap *domain.Snapshot) error {
		before = snap.Graph()
		*snap = body
		return nil
	})
	if err != nil {
		s.writeError(w, "PutCanvas", err)
		return
	}
	s.publish(canvasID, before, snap.Graph())
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteCanvas handles DELETE /canvases/{canvasID}.
func (s *Server) DeleteCanvas(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "canvasID")); err != nil {
		s.writeError(w, "DeleteCanvas", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CanvasLineage handles GET /canvases/{canvasID}/lineage/{nodeID}.
func (s *Server) CanvasLineage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "canvasID"))
	if err != nil {
		s.writeError(w, "CanvasLineage", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Lineage(snap.Graph(), chi.URLParam(r, "nodeID")))
}

// CanvasLayout handles POST /canvases/{canvasID}/layout.
func (s *Server) CanvasLayout(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "CanvasLayout", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		g.Nodes = eng.Layout(ctx, g.Nodes, g.Edges, 0)
		return g, nil, nil
	})
}

// AddNode handles POST /canvases/{canvasID}/nodes.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var body AddNodeRequest
	if !s.decode(w, r, &body, "AddNode") {
		return
	}
	s.mutate(w, r, "AddNode", http.StatusCreated, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		spec := canvas.NodeSpec{ID: body.ID, Type: body.Type, Position: body.Position}
		if len(body.Data) > 0 {
			data, err := domain.DecodePayloadJSON(body.Type, body.Data)
			if err != nil {
				return g, nil, fmt.Errorf("%w: data: %v", errBadRequest, err)
			}
			spec.Data = data
		}
		out, node, err := eng.AddNodeSpec(ctx, g, spec)
		return out, node, err
	})
}

// UpdateNode handles PATCH /canvases/{canvasID}/nodes/{nodeID} with a partial payload.
func (s *Server) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if !s.decode(w, r, &partial, "UpdateNode") {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	s.mutate(w, r, "UpdateNode", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, err := eng.UpdateNodeData(ctx, g, nodeID, partial)
		if err != nil {
			return g, nil, err
		}
		node, _ := out.Node(nodeID)
		return out, node, nil
	})
}

// SetMeasured handles PUT /canvases/{canvasID}/nodes/{nodeID}/measured.
func (s *Server) SetMeasured(w http.ResponseWriter, r *http.Request) {
	var size domain.Size
	if !s.decode(w, r, &size, "SetMeasured") {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	s.mutate(w, r, "SetMeasured", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, err := eng.SetMeasured(ctx, g, nodeID, size)
		return out, nil, err
	})
}

// RemoveNode handles DELETE /canvases/{canvasID}/nodes/{nodeID}.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	s.mutate(w, r, "RemoveNode", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, err := eng.RemoveNode(ctx, g, nodeID)
		return out, nil, err
	})
}

// AddEdge handles POST /canvases/{canvasID}/edges.
func (s *Server) AddEdge(w http.ResponseWriter, r *http.Request) {
	var body AddEdgeRequest
	if !s.decode(w, r, &body, "AddEdge") {
		return
	}
	s.mutate(w, r, "AddEdge", http.StatusCreated, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, ok := eng.AddEdge(ctx, g, body.Source, body.Target)
		if !ok {
			return g, nil, fmt.Errorf("%s -> %s: %w", body.Source, body.Target, domain.ErrInvalidConnection)
		}
		edge := out.Edges[out.EdgeIndex(domain.EdgeID(body.Source, body.Target))]
		return out, edge, nil
	})
}

// RemoveEdge handles DELETE /canvases/{canvasID}/edges/{edgeID}.
func (s *Server) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	edgeID := chi.URLParam(r, "edgeID")
	s.mutate(w, r, "RemoveEdge", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, err := eng.RemoveEdge(ctx, g, edgeID)
		return out, nil, err
	})
}

// SyncCompilation handles POST /canvases/{canvasID}/compilations.
func (s *Server) SyncCompilation(w http.ResponseWriter, r *http.Request) {
	var body SyncCompilationRequest
	if !s.decode(w, r, &body, "SyncCompilation") {
		return
	}
	s.mutate(w, r, "SyncCompilation", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, placed := eng.SyncCompilation(ctx, g, body.CompilerID, body.Strategies)
		return out, map[string]any{"placed": placed}, nil
	})
}

// SyncGeneration handles POST /canvases/{canvasID}/generations.
func (s *Server) SyncGeneration(w http.ResponseWriter, r *http.Request) {
	var body SyncGenerationRequest
	if !s.decode(w, r, &body, "SyncGeneration") {
		return
	}
	s.mutate(w, r, "SyncGeneration", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, placed := eng.SyncGeneration(ctx, g, body.SourceID, body.Results)
		return out, map[string]any{"placed": placed}, nil
	})
}

// CompleteGeneration handles POST /canvases/{canvasID}/generations/complete.
func (s *Server) CompleteGeneration(w http.ResponseWriter, r *http.Request) {
	var body CompleteRequest
	if !s.decode(w, r, &body, "CompleteGeneration") {
		return
	}
	s.mutate(w, r, "CompleteGeneration", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, err := eng.CompleteGeneration(ctx, g, body.SourceID, body.NodeID, body.Status)
		if err != nil && !errors.Is(err, domain.ErrEdgeNotFound) {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return out, nil, err
	})
}

// SelectVersion handles POST /canvases/{canvasID}/nodes/{nodeID}/versions/{resultID}.
func (s *Server) SelectVersion(w http.ResponseWriter, r *http.Request) {
	nodeID, resultID := chi.URLParam(r, "nodeID"), chi.URLParam(r, "resultID")
	s.mutate(w, r, "SelectVersion", http.StatusOK, func(ctx context.Context, eng *lattice.Engine, g domain.Graph) (domain.Graph, any, error) {
		out, err := eng.SelectVersion(ctx, g, nodeID, resultID)
		if err != nil && !errors.Is(err, domain.ErrNodeNotFound) && !errors.Is(err, domain.ErrResultNotFound) {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return out, nil, err
	})
}
