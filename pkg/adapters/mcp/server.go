// Package mcp exposes the lattice graph operations as Model Context Protocol
// tools so agents can lay out, trace and validate canvases.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/connect"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lineage"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const matrixURI = "lattice://matrix"

// LayoutResponse is the structured result of layout_canvas.
type LayoutResponse struct {
	Nodes []domain.Node `json:"nodes" jsonschema_description:"Nodes with their new positions"`
}

// LineageResponse is the structured result of trace_lineage.
type LineageResponse struct {
	NodeIDs []string `json:"nodeIds" jsonschema_description:"Ancestors and descendants of the seed, seed included"`
	EdgeIDs []string `json:"edgeIds" jsonschema_description:"Edges whose endpoints are both in the lineage"`
}

// ConnectionResponse is the structured result of check_connection.
type ConnectionResponse struct {
	Valid bool `json:"valid" jsonschema_description:"Whether the source type may feed the target type"`
}

// AuditResponse is the structured result of audit_canvas.
type AuditResponse struct {
	Violations []connect.Violation `json:"violations" jsonschema_description:"Edges that dangle or break the compatibility matrix"`
}

type layoutArgs struct {
	Graph    string  `json:"graph"`
	CanvasID string  `json:"canvas_id"`
	Gap      float64 `json:"gap"`
}

type lineageArgs struct {
	Graph    string `json:"graph"`
	CanvasID string `json:"canvas_id"`
	NodeID   string `json:"node_id"`
}

type connectionArgs struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type auditArgs struct {
	Graph    string `json:"graph"`
	CanvasID string `json:"canvas_id"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    *lattice.Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSessions lets tools address stored canvases by canvas_id.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *lattice.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	graphArg := mcp.WithString("graph", mcp.Description(`JSON object {"nodes":[...],"edges":[...]} (optional if canvas_id is given)`))
	canvasArg := mcp.WithString("canvas_id", mcp.Description("ID of a stored canvas (optional if graph is given)"))

	// TOOL: layout_canvas
	s.mcpServer.AddTool(mcp.NewTool("layout_canvas",
		mcp.WithDescription("Compute column positions for every node of a canvas. Stored canvases are not modified."),
		graphArg,
		canvasArg,
		mcp.WithNumber("gap", mcp.Description("Horizontal gap between columns in pixels (optional)")),
		mcp.WithOutputSchema[LayoutResponse](),
	), mcp.NewStructuredToolHandler(s.handleLayout))

	// TOOL: trace_lineage
	s.mcpServer.AddTool(mcp.NewTool("trace_lineage",
		mcp.WithDescription("List every node and edge upstream or downstream of a node."),
		graphArg,
		canvasArg,
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Seed node ID")),
		mcp.WithOutputSchema[LineageResponse](),
	), mcp.NewStructuredToolHandler(s.handleLineage))

	// TOOL: check_connection
	s.mcpServer.AddTool(mcp.NewTool("check_connection",
		mcp.WithDescription("Check whether a node of the source type may connect to a node of the target type."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source node type")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target node type")),
		mcp.WithOutputSchema[ConnectionResponse](),
	), mcp.NewStructuredToolHandler(s.handleConnection))

	// TOOL: audit_canvas
	s.mcpServer.AddTool(mcp.NewTool("audit_canvas",
		mcp.WithDescription("List edges that reference missing nodes or break the compatibility matrix."),
		graphArg,
		canvasArg,
		mcp.WithOutputSchema[AuditResponse](),
	), mcp.NewStructuredToolHandler(s.handleAudit))
}

func (s *Server) handleLayout(ctx context.Context, request mcp.CallToolRequest, args layoutArgs) (LayoutResponse, error) {
	g, eng, err := s.resolve(ctx, args.Graph, args.CanvasID)
	if err != nil {
		return LayoutResponse{}, err
	}
	return LayoutResponse{Nodes: eng.Layout(ctx, g.Nodes, g.Edges, args.Gap)}, nil
}

func (s *Server) handleLineage(ctx context.Context, request mcp.CallToolRequest, args lineageArgs) (LineageResponse, error) {
	if args.NodeID == "" {
		return LineageResponse{}, errors.New("node_id is required")
	}
	g, eng, err := s.resolve(ctx, args.Graph, args.CanvasID)
	if err != nil {
		return LineageResponse{}, err
	}
	res := eng.Lineage(g, args.NodeID)
	return toLineageResponse(res), nil
}

func (s *Server) handleConnection(ctx context.Context, request mcp.CallToolRequest, args connectionArgs) (ConnectionResponse, error) {
	return ConnectionResponse{
		Valid: s.engine.IsValidConnection(domain.NodeType(args.Source), domain.NodeType(args.Target)),
	}, nil
}

func (s *Server) handleAudit(ctx context.Context, request mcp.CallToolRequest, args auditArgs) (AuditResponse, error) {
	g, eng, err := s.resolve(ctx, args.Graph, args.CanvasID)
	if err != nil {
		return AuditResponse{}, err
	}
	violations := eng.Audit(g)
	if violations == nil {
		violations = []connect.Violation{}
	}
	return AuditResponse{Violations: violations}, nil
}

// resolve returns the graph a tool call addresses, either inline or by
// canvas ID, with the engine tuned to the canvas settings.
func (s *Server) resolve(ctx context.Context, raw, canvasID string) (domain.Graph, *lattice.Engine, error) {
	switch {
	case raw != "":
		var g domain.Graph
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return domain.Graph{}, nil, fmt.Errorf("invalid graph: %w", err)
		}
		return g, s.engine, nil
	case canvasID != "":
		if s.sessions == nil {
			return domain.Graph{}, nil, errors.New("canvas_id given but no canvas store is configured")
		}
		snap, err := s.sessions.Load(ctx, canvasID)
		if err != nil {
			s.logger.Warn("MCP: canvas load failed", "canvas", canvasID, "error", err)
			return domain.Graph{}, nil, fmt.Errorf("load canvas %s: %w", canvasID, err)
		}
		return snap.Graph(), s.engine.ForSnapshot(snap), nil
	}
	return domain.Graph{}, nil, errors.New("one of graph or canvas_id is required")
}

func toLineageResponse(res lineage.Result) LineageResponse {
	out := LineageResponse{NodeIDs: res.Nodes(), EdgeIDs: res.Edges()}
	if out.NodeIDs == nil {
		out.NodeIDs = []string{}
	}
	if out.EdgeIDs == nil {
		out.EdgeIDs = []string{}
	}
	return out
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://matrix
	s.mcpServer.AddResource(mcp.NewResource(matrixURI, "Connection Compatibility Matrix",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		pairs := []connect.Pair{}
		for pair, ok := range connect.Matrix() {
			if ok {
				pairs = append(pairs, pair)
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].Source != pairs[j].Source {
				return pairs[i].Source < pairs[j].Source
			}
			return pairs[i].Target < pairs[j].Target
		})
		jsonBytes, err := json.Marshal(pairs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode matrix: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      matrixURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
