package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // CanvasID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.Default(),
	}
}

// Subscribe registers a listener for canvasID. The returned func unsubscribes.
func (sm *StreamManager) Subscribe(canvasID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[canvasID]; !ok {
		sm.subscribers[canvasID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[canvasID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[canvasID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, canvasID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of canvasID without blocking.
func (sm *StreamManager) Broadcast(canvasID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[canvasID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "canvas_id", canvasID)
		}
	}
}

// publish broadcasts the diff between two graphs, if any.
func (s *Server) publish(canvasID string, before, after domain.Graph) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "error", err)
		return
	}
	s.Streams.Broadcast(canvasID, string(bytes))
}

// SubscribeEvents handles GET /canvases/{canvasID}/events (SSE).
// The optional watch query (nodes,edges) filters diffs by what they touch.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	canvasID := chi.URLParam(r, "canvasID")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(canvasID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watch []string
	if q := r.URL.Query().Get("watch"); q != "" {
		watch = strings.Split(q, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matches(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matches(msg string, watch []string) bool {
	var diff domain.GraphDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "nodes":
			if len(diff.AddedNodes)+len(diff.RemovedNodes)+len(diff.ChangedNodes) > 0 {
				return true
			}
		case "edges":
			if len(diff.AddedEdges)+len(diff.RemovedEdges)+len(diff.ChangedEdges) > 0 {
				return true
			}
		}
	}
	return false
}
