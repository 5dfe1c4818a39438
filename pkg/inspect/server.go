package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strandui/strand/pkg/component"
)

// Server serves the inspector API over a live component tree:
//
//	GET /api/tree       tree dump (components, phases, edges, root)
//	GET /api/scheduler  scheduler state
//	GET /metrics        Prometheus metrics
//	GET /ws             live pipeline event stream
type Server struct {
	tree    *component.Tree
	hub     *Hub
	addr    string
	logger  *slog.Logger
	metrics http.Handler
	httpSrv *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address (default ":7071").
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler replaces the default promhttp handler, letting the
// caller serve a dedicated registry.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		if h != nil {
			s.metrics = h
		}
	}
}

// WithHub sets the event hub. Without it the server creates its own; in
// either case the caller registers the hub as a scheduler and tree
// observer.
func WithHub(hub *Hub) ServerOption {
	return func(s *Server) {
		if hub != nil {
			s.hub = hub
		}
	}
}

// NewServer creates an inspector over the tree.
func NewServer(tree *component.Tree, opts ...ServerOption) *Server {
	s := &Server{
		tree:    tree,
		addr:    ":7071",
		logger:  slog.Default(),
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewHub()
	}
	return s
}

// Hub returns the server's event hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler builds the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/tree", s.handleTree)
	r.Get("/api/scheduler", s.handleScheduler)
	r.Get("/metrics", s.metrics.ServeHTTP)
	r.Get("/ws", s.hub.HandleWebSocket)
	return r
}

// Start serves the inspector until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.logger.Info("inspector listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.hub.Close()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// treeNode is one component in the tree dump.
type treeNode struct {
	ID       uint64   `json:"id"`
	Phase    string   `json:"phase"`
	Parent   uint64   `json:"parent,omitempty"`
	Children []uint64 `json:"children,omitempty"`
	Dirty    []string `json:"dirty_fields,omitempty"`
}

type treeDump struct {
	Root       uint64     `json:"root,omitempty"`
	Components []treeNode `json:"components"`
}

func (s *Server) handleTree(w http.ResponseWriter, req *http.Request) {
	dump := treeDump{}
	if root, ok := s.tree.RootID(); ok {
		dump.Root = uint64(root)
	}

	for _, id := range s.tree.AllComponents() {
		mgr, err := s.tree.Manager(id)
		if err != nil {
			continue
		}
		node := treeNode{
			ID:    uint64(id),
			Phase: mgr.CurrentPhase().String(),
			Dirty: mgr.Tracker().DirtyFields(),
		}
		if p, ok := s.tree.Parent(id); ok {
			node.Parent = uint64(p)
		}
		if kids, err := s.tree.Children(id); err == nil {
			for _, k := range kids {
				node.Children = append(node.Children, uint64(k))
			}
		}
		dump.Components = append(dump.Components, node)
	}

	writeJSON(w, s.logger, dump)
}

type schedulerState struct {
	PendingCount int  `json:"pending_count"`
	Draining     bool `json:"draining"`
}

func (s *Server) handleScheduler(w http.ResponseWriter, req *http.Request) {
	sched := s.tree.Scheduler()
	writeJSON(w, s.logger, schedulerState{
		PendingCount: sched.PendingCount(),
		Draining:     sched.IsDraining(),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("inspector response encode failed", "error", err)
	}
}
