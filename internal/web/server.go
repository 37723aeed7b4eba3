package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/nao1215/stopverifage/internal/dataset"
	"github.com/nao1215/stopverifage/internal/metrics"
	"github.com/nao1215/stopverifage/internal/page"
)

// maxFormSize bounds the body of a suggestion submission.
const maxFormSize = 64 * 1024

// ServerConfig configures a Server.
type ServerConfig struct {
	// Addr is the listen address in "host:port" form.
	Addr string

	// SuggestRateLimit is the number of suggestion submissions accepted
	// per client IP and minute. Zero disables the limit.
	SuggestRateLimit int

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server is the preview server. Every request renders from the
// accessor's memoized dataset.
type Server struct {
	cfg      ServerConfig
	accessor *dataset.Accessor
	renderer *Renderer
	builder  *page.Builder
	logger   *slog.Logger
}

// NewServer returns a Server. builder must use DynamicLinks.
func NewServer(cfg ServerConfig, accessor *dataset.Accessor, renderer *Renderer, builder *page.Builder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		cfg:      cfg,
		accessor: accessor,
		renderer: renderer,
		builder:  builder,
		logger:   logger,
	}
}

// Handler returns the router serving every route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handlePage(page.Index))
	r.Get("/list", s.handlePage(page.List))
	r.Get("/search", s.handleSearch)
	r.Get("/sites/{id}", s.handleSite)
	r.Get("/suggest", s.handlePage(page.Suggest))
	r.With(s.suggestLimiter()).Post("/suggest", s.handleSuggestion)

	r.Get("/data/sites.json", s.handleDataset)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(StaticFS())))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}

func (s *Server) suggestLimiter() func(http.Handler) http.Handler {
	if s.cfg.SuggestRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.cfg.SuggestRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("Trop de suggestions envoyées. Réessayez dans une minute.\n"))
		}),
	)
}

func (s *Server) handlePage(id page.ID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.builder.Build(id, s.accessor.Sites(r.Context()), r.URL.Query())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.write(w, r, http.StatusOK, v)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.builder.SearchTarget(r.URL.Query().Get(page.ParamQuery)), http.StatusSeeOther)
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	v := s.builder.Site(s.accessor.Sites(r.Context()), chi.URLParam(r, "id"))
	status := http.StatusOK
	if !v.Found {
		status = http.StatusNotFound
	}
	s.write(w, r, status, v)
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulaire invalide", http.StatusBadRequest)
		return
	}

	sug := page.ParseSuggestion(r.PostForm)
	metrics.RecordSuggestion()
	s.logger.Info("suggestion received",
		"request_id", middleware.GetReqID(r.Context()),
		"site", sug.Name,
		"url", sug.URL,
		"categories", sug.Category,
		"alternatives", len(sug.Alternatives),
	)

	s.write(w, r, http.StatusOK, s.builder.Suggest(s.accessor.Sites(r.Context()), true))
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	snap := s.accessor.Load(r.Context())
	etag := `"` + snap.Digest + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := snap.Dataset.Encode()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v page.View) {
	var buf bytes.Buffer
	if err := s.renderer.RenderView(&buf, v); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("failed to serve page",
		"request_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
