// Package http exposes the lattice engine over a JSON HTTP API.
//
// Stateless routes (layout, lineage, validate, migrate) work on the graph in
// the request body. Routes under /canvases go through the session manager
// and persist their result; every change is broadcast as a graph diff to
// the canvas's SSE subscribers.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/schema"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the handler dependencies.
type Server struct {
	Engine   *lattice.Engine
	Sessions *session.Manager
	Streams  *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves metrics from g on /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *lattice.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(s.validateRequests(mustSpecRouter()))

	r.Get("/openapi.yaml", s.ServeSpec)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Post("/layout", s.Layout)
	r.Post("/lineage", s.Lineage)
	r.Get("/validate", s.Validate)
	r.Get("/matrix", s.GetMatrix)
	r.Post("/audit", s.Audit)
	r.Post("/migrate", s.Migrate)

	r.Route("/canvases", func(r chi.Router) {
		r.Get("/", s.ListCanvases)
		r.Route("/{canvasID}", func(r chi.Router) {
			r.Get("/", s.GetCanvas)
			r.Put("/", s.PutCanvas)
			r.Delete("/", s.DeleteCanvas)
			r.Get("/events", s.SubscribeEvents)
			r.Get("/lineage/{nodeID}", s.CanvasLineage)
			r.Post("/layout", s.CanvasLayout)

			r.Post("/nodes", s.AddNode)
			r.Patch("/nodes/{nodeID}", s.UpdateNode)
			r.Put("/nodes/{nodeID}/measured", s.SetMeasured)
			r.Delete("/nodes/{nodeID}", s.RemoveNode)

			r.Post("/edges", s.AddEdge)
			r.Delete("/edges/{edgeID}", s.RemoveEdge)

			r.Post("/compilations", s.SyncCompilation)
			r.Post("/generations", s.SyncGeneration)
			r.Post("/generations/complete", s.CompleteGeneration)
			r.Post("/nodes/{nodeID}/versions/{resultID}", s.SelectVersion)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":            "lattice-http",
		"version":        strings.TrimSpace(lattice.Version),
		"schema_version": domain.CurrentSnapshotVersion,
	})
}

// GetMatrix handles the GET /matrix request, listing every allowed type pair.
func (s *Server) GetMatrix(w http.ResponseWriter, r *http.Request) {
	pairs := []connect.Pair{}
	for _, src := range domain.NodeTypes() {
		for _, dst := range domain.NodeTypes() {
			if connect.IsValidConnection(src, dst) {
				pairs = append(pairs, connect.Pair{Source: src, Target: dst})
			}
		}
	}
	s.writeJSON(w, http.StatusOK, pairs)
}

// Validate handles GET /validate?source=&target=.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	src, err := queryParam(r, "source", true)
	if err != nil {
		s.writeError(w, "Validate", err)
		return
	}
	dst, err := queryParam(r, "target", true)
	if err != nil {
		s.writeError(w, "Validate", err)
		return
	}
	valid := s.Engine.IsValidConnection(domain.NodeType(src), domain.NodeType(dst))
	s.writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn(op+": Invalid request body", "error", err)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// writeError maps domain sentinels onto status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrEdgeNotFound),
		errors.Is(err, domain.ErrSnapshotNotFound),
		errors.Is(err, domain.ErrResultNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSingletonExists),
		errors.Is(err, domain.ErrNodeExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnknownNodeType),
		errors.Is(err, domain.ErrInvalidConnection),
		errors.Is(err, domain.ErrPayloadMismatch),
		errors.Is(err, schema.ErrNoSchema),
		schema.ValidationErrors(err) != nil:
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
