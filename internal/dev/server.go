package dev

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omm-dev/omm/internal/build"
	"github.com/omm-dev/omm/internal/config"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives server and build logs. Defaults to slog.Default().
	Logger *slog.Logger

	// OnBuildComplete is called after each build attempt.
	OnBuildComplete func(result *build.Result, err error)

	// OnReload is called when browsers are reloaded.
	OnReload func(clients int)
}

// Server is the development server. It rebuilds the project when input
// documents change, serves the output directory, and pushes reload
// notifications to connected browsers.
type Server struct {
	config       *config.Config
	options      ServerOptions
	logger       *slog.Logger
	watcher      *Watcher
	reloadServer *ReloadServer
	httpServer   *http.Server
	mu           sync.Mutex
	running      bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:    collectWatchPaths(cfg),
		Debounce: 100 * time.Millisecond,
	})

	return &Server{
		config:       cfg,
		options:      options,
		logger:       logger,
		watcher:      watcher,
		reloadServer: NewReloadServer(),
	}
}

// collectWatchPaths derives the watch roots from the input globs plus
// the configuration file itself.
func collectWatchPaths(cfg *config.Config) []string {
	dir := cfg.Dir()
	seen := make(map[string]bool)
	var paths []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, glob := range cfg.Inputs {
		// Watch the directory holding the glob, not the glob itself,
		// so newly created documents are picked up.
		root := glob
		if i := strings.IndexAny(root, "*?["); i >= 0 {
			root = filepath.Dir(root[:i])
		}
		add(filepath.Join(dir, root))
	}

	if p := cfg.Path(); p != "" {
		add(p)
	}

	return paths
}

// Start runs the initial build and serves until the context is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.rebuild(ctx, "startup")

	go func() {
		s.watcher.OnChange(func(change Change) {
			s.handleChange(ctx, change)
		})
		s.watcher.Start(ctx)
	}()

	s.httpServer = &http.Server{
		Addr:              s.config.DevAddress(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("dev server listening",
		"url", s.config.DevURL(),
		"output", s.config.OutputPath())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Stop shuts down the server and all watchers.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	s.watcher.Stop()
	s.reloadServer.Close()
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}
}

// routes builds the dev HTTP handler.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.NoCache)

	r.Get("/_omm/reload", s.reloadServer.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/*", s.servePage)

	return r
}

// servePage serves a file from the output directory, injecting the
// reload client script into HTML responses.
func (s *Server) servePage(w http.ResponseWriter, req *http.Request) {
	outputDir := s.config.OutputPath()

	rel := strings.TrimPrefix(req.URL.Path, "/")
	if rel == "" {
		rel = "index.html"
	}
	if !strings.Contains(filepath.Base(rel), ".") {
		rel += ".html"
	}

	path := filepath.Join(outputDir, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, filepath.Clean(outputDir)+string(filepath.Separator)) {
		http.NotFound(w, req)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	if strings.HasSuffix(path, ".html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(injectReloadScript(data))
		return
	}

	http.ServeFile(w, req, path)
}

// injectReloadScript inserts the hot-reload client before </body>, or
// appends it when the page has no body close tag.
func injectReloadScript(page []byte) []byte {
	html := string(page)
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		return []byte(html[:i] + ReloadClientScript + html[i:])
	}
	return []byte(html + ReloadClientScript)
}

// handleChange rebuilds and notifies browsers after a watched file
// changes.
func (s *Server) handleChange(ctx context.Context, change Change) {
	switch change.Type {
	case ChangeConfig:
		s.logger.Info("configuration changed, reloading", "path", change.Path)
		if cfg, err := config.LoadFile(change.Path); err != nil {
			s.logger.Warn("configuration invalid, keeping previous", "error", err)
		} else {
			s.mu.Lock()
			s.config = cfg
			s.mu.Unlock()
		}
		s.rebuild(ctx, change.Path)
	case ChangeDocument:
		s.rebuild(ctx, change.Path)
	default:
		// Non-document assets do not feed the compiler; just reload.
		s.reloadServer.NotifyReload()
		s.notifyReloaded()
	}
}

// rebuild runs a full build and pushes the outcome to clients.
func (s *Server) rebuild(ctx context.Context, reason string) {
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()

	start := time.Now()
	builder := build.New(cfg, build.Options{Logger: s.logger})
	result, err := builder.Build(ctx)

	buildDuration.Observe(time.Since(start).Seconds())

	if s.options.OnBuildComplete != nil {
		s.options.OnBuildComplete(result, err)
	}

	if err != nil && (result == nil || len(result.Pages) == 0) {
		buildsTotal.WithLabelValues("error").Inc()
		s.logger.Error("build failed", "reason", reason, "error", err)
		s.reloadServer.NotifyError(err.Error())
		return
	}

	status := "success"
	if err != nil || (result != nil && len(result.Failed) > 0) {
		status = "partial"
	}
	buildsTotal.WithLabelValues(status).Inc()

	if result != nil {
		pagesCompiled.Add(float64(len(result.Pages)))
		for _, page := range result.Pages {
			for _, d := range page.Diagnostics {
				diagnosticsTotal.WithLabelValues(d.Severity.String()).Inc()
			}
		}
		s.logger.Info("rebuilt",
			"pages", len(result.Pages),
			"failed", len(result.Failed),
			"duration", result.Duration.Round(time.Millisecond))
	}

	s.reloadServer.ClearError()
	s.reloadServer.NotifyReload()
	s.notifyReloaded()
}

func (s *Server) notifyReloaded() {
	if s.options.OnReload != nil {
		s.options.OnReload(s.reloadServer.ClientCount())
	}
}
