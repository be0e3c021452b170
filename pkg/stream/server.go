package stream

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/genui-dev/genui/pkg/renderer"
)

// Server is the HTTP surface for the event stream: WebSocket subscriptions
// on /events, Prometheus metrics on /metrics, and a health probe on
// /healthz.
type Server struct {
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCheckOrigin overrides the WebSocket origin check. The default
// accepts all origins; the stream carries no credentials.
func WithCheckOrigin(fn func(r *http.Request) bool) ServerOption {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// NewServer creates the event stream server around a hub.
func NewServer(hub *Hub, opts ...ServerOption) *Server {
	s := &Server{
		hub:    hub,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/events", s.handleEvents)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting into a host router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// RendererOptions returns the renderer observer options that feed this
// server's hub. Pass them to renderer.New:
//
//	srv := stream.NewServer(hub)
//	r := renderer.New(reg, host, srv.RendererOptions()...)
func (s *Server) RendererOptions() []renderer.Option {
	return []renderer.Option{
		renderer.WithInteractionObserver(func(ev renderer.InteractionEvent) {
			s.hub.Broadcast(EventInteraction, ev)
		}),
		renderer.WithDataChangeObserver(func(ev renderer.DataChangeEvent) {
			s.hub.Broadcast(EventDataChange, ev)
		}),
		renderer.WithRenderComplete(func(stats renderer.Stats) {
			s.hub.Broadcast(EventRenderComplete, stats)
		}),
		renderer.WithRenderErrorObserver(func(rerr *renderer.RenderError) {
			s.hub.Broadcast(EventRenderError, map[string]any{
				"componentId":   rerr.ComponentID,
				"componentType": rerr.ComponentType,
				"error":         rerr.Err.Error(),
			})
		}),
	}
}

// handleEvents upgrades the connection and subscribes it to the hub.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("stream: upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	if !s.hub.add(c) {
		conn.Close()
		return
	}
	// Block in the read pump so the hijacked connection outlives the
	// handler's request context.
	c.readPump(s.hub)
}

// handleHealth answers liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
