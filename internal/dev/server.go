package dev

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/nano/internal/config"
	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/middleware"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/render"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Options configures the development server.
type Options struct {
	// Config is the initial configuration. Default: config.New().
	Config *config.Config

	// Catalog holds the pages to serve.
	Catalog *Catalog

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Registry receives the server's metrics. Default: a new registry
	// with the Go and process collectors.
	Registry *prometheus.Registry
}

// Server is the development server.
type Server struct {
	catalog  *Catalog
	logger   *slog.Logger
	registry *prometheus.Registry

	metrics     *sessionMetrics
	nanoMetrics *nano.Metrics
	httpMetrics *middleware.Metrics
	upgrader    websocket.Upgrader

	mu       sync.RWMutex
	cfg      *config.Config
	ctx      context.Context
	sessions map[string]*Session
}

// NewServer creates a development server.
func NewServer(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.New()
	}
	if opts.Catalog == nil {
		opts.Catalog = NewCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Server{
		catalog:     opts.Catalog,
		logger:      opts.Logger,
		registry:    opts.Registry,
		metrics:     newSessionMetrics(opts.Registry),
		nanoMetrics: nano.NewMetrics(nano.WithRegistry(opts.Registry)),
		httpMetrics: middleware.NewMetrics(middleware.WithRegistry(opts.Registry)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
		cfg:      opts.Config,
		ctx:      context.Background(),
		sessions: make(map[string]*Session),
	}
}

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetConfig replaces the configuration and asks every browser to reload.
// Sessions started afterwards use the new settings.
func (s *Server) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.NotifyReload()
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName("nano-dev"),
		middleware.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics"
		}),
	))
	r.Use(s.httpMetrics.Handler)

	r.Get("/", s.handleIndex)
	r.Get("/p/{page}", s.handlePage)
	r.Get("/_nano/ws/{page}", s.handleSession)
	r.Get("/_nano/sessions", s.handleSessions)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if !s.Config().Dev.Metrics {
			http.NotFound(w, r)
			return
		}
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
	return r
}

// Start serves on the configured address until ctx is done, then shuts
// down and closes every session.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Config().DevAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New("N060").WithDetail(addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("dev server running", "url", "http://"+ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeSessions()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.New("N060").Wrap(err)
		}
		return nil
	case err := <-errCh:
		s.closeSessions()
		if err != nil && err != http.ErrServerClosed {
			return errors.New("N060").Wrap(err)
		}
		return nil
	}
}

// Sessions returns the live sessions ordered by creation.
func (s *Server) Sessions() []SessionInfo {
	s.mu.RLock()
	out := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Info())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out
}

// NotifyReload asks every connected browser to reload its page.
func (s *Server) NotifyReload() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.enqueue(ServerMessage{Type: MessageReload})
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages := s.catalog.Pages()
	body := vdom.Main(
		vdom.H1("nano dev server"),
		vdom.Ul(vdom.RangeKeyed(pages, func(p Page) any { return p.Name }, func(p Page, _ int) *vdom.VNode {
			return vdom.Li(vdom.A(vdom.Href("/p/"+p.Name), p.Title), " ", vdom.Small(p.Name))
		})),
		vdom.If(len(pages) == 0, vdom.P("No pages registered.")),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderer := render.NewRenderer(render.Config{Logger: s.logger})
	if err := renderer.RenderPage(w, render.PageData{Title: "nano", Body: body}); err != nil {
		s.logger.Error("index render failed", "error", err)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.catalog.Lookup(chi.URLParam(r, "page"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderPage(w, page, clientScript(page.Name, s.Config().Hydrate.Container)); err != nil {
		s.logger.Error("page render failed", "page", page.Name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// renderPage renders page to w, with script appended when it is not empty.
// The page is rendered into memory first so that a failure leaves w
// untouched.
func (s *Server) renderPage(w io.Writer, page Page, script string) error {
	data := render.PageData{
		Title:       page.Title,
		Body:        page.Body(),
		ContainerID: s.Config().Hydrate.Container,
	}
	if script != "" {
		data.Scripts = []render.ScriptTag{{Inline: script}}
	}
	renderer := render.NewRenderer(render.Config{Logger: s.logger})
	if err := renderer.RenderPage(w, data); err != nil {
		return errors.New("N020").WithDetail(page.Name).Wrap(err)
	}
	return nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	page, ok := s.catalog.Lookup(chi.URLParam(r, "page"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.wsErrors.WithLabelValues("upgrade").Inc()
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sess, err := newSession(s, page, conn)
	if err != nil {
		s.logger.Error("session start failed", "page", page.Name, "error", err)
		conn.WriteJSON(ServerMessage{Type: MessageError, Error: err.Error()})
		conn.Close()
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	ctx := s.ctx
	s.mu.Unlock()
	s.metrics.activeSessions.Inc()
	sess.logger.Info("session started", "mismatches", sess.mismatches)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()
		s.metrics.activeSessions.Dec()
	}()
	sess.Serve(ctx)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sessions())
}

func (s *Server) closeSessions() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.Close()
	}
}
