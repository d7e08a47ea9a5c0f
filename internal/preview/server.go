package preview

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/htmldoc/internal/config"
	"github.com/vango-dev/htmldoc/internal/errors"
	"github.com/vango-dev/htmldoc/internal/telemetry"
	"github.com/vango-dev/htmldoc/pkg/html"
	"github.com/vango-dev/htmldoc/pkg/report"
)

const shutdownTimeout = 5 * time.Second

// ServerOptions configures the preview server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Registry receives the server's collectors when metrics are enabled.
	// A new registry is created when nil.
	Registry *prometheus.Registry

	// OnReload is called after browsers were told to reload.
	OnReload func(clients int)
}

// Server is the live preview server.
type Server struct {
	config       *config.Config
	options      ServerOptions
	logger       *slog.Logger
	registry     *prometheus.Registry
	metrics      *telemetry.Metrics
	tracer       *telemetry.Tracer
	reloadServer *ReloadServer
	handler      http.Handler

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a new preview server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		options: options,
		logger:  logger,
	}

	if cfg.Metrics.Enabled {
		s.registry = options.Registry
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
			s.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		s.metrics = telemetry.NewMetrics(
			telemetry.WithRegistry(s.registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		)
	}
	if cfg.Tracing.Enabled {
		s.tracer = telemetry.NewTracer(cfg.Tracing.TracerName)
	}
	if cfg.Serve.LiveReload {
		s.reloadServer = NewReloadServer(logger, s.metrics.SetReloadClients)
	}

	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handleIndex)
	r.Get("/reports/{name}", s.handleReport)
	if s.reloadServer != nil {
		r.Get(ReloadPath, s.reloadServer.HandleWebSocket)
	}
	if s.registry != nil {
		r.Method(http.MethodGet, s.config.Metrics.Path,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ReloadServer returns the live reload server, or nil when live reload
// is disabled.
func (s *Server) ReloadServer() *ReloadServer {
	return s.reloadServer
}

// Start serves previews until ctx is cancelled, then shuts down
// gracefully. Reports are watched when serve.watch is enabled.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.config.Serve.Watch {
		watcher, err := NewWatcher(WatcherConfig{
			Paths:    []string{s.config.ReportsPath()},
			Ignore:   append(append([]string{}, DefaultIgnore...), s.config.Serve.Ignore...),
			Debounce: s.config.DebounceDuration(),
			Logger:   s.logger,
		})
		if err != nil {
			return err
		}
		watcher.OnChange(s.HandleChanges)
		go func() {
			if err := watcher.Start(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
				s.logger.Error("file watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.config.ServeAddress(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("preview server running", "url", s.config.ServeURL(), "reports", s.config.ReportsPath())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.New("E500").WithDetail(srv.Addr).Wrap(err)
		}
		return nil
	}
}

// Stop shuts the HTTP server down and disconnects reload clients.
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if s.reloadServer != nil {
		s.reloadServer.Close()
	}
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("preview server shutdown", "error", err)
	}
}

// HandleChanges reacts to a batch of file changes. A changed report that
// no longer parses shows an error overlay instead of reloading.
func (s *Server) HandleChanges(changes []Change) {
	var reload string
	for _, c := range changes {
		s.logger.Debug("file changed", "path", c.Path, "type", c.Type.String(), "removed", c.Removed)

		if c.Type == ChangeReport && !c.Removed {
			if _, err := report.Load(c.Path); err != nil {
				s.logger.Warn("report is invalid", "path", c.Path, "error", err)
				s.notifyError(formatError(err))
				return
			}
		}
		if reload == "" {
			reload = c.Path
		}
	}
	if reload == "" {
		return
	}

	if s.reloadServer == nil {
		s.logger.Info("reports changed; live reload disabled", "path", reload)
		return
	}
	s.reloadServer.NotifyReload(filepath.Base(reload))
	clients := s.reloadServer.ClientCount()
	s.logger.Info("reloaded browsers", "clients", clients, "path", reload)
	if s.options.OnReload != nil {
		s.options.OnReload(clients)
	}
}

func (s *Server) notifyError(msg string) {
	if s.reloadServer != nil {
		s.reloadServer.NotifyError(msg)
	}
}

func formatError(err error) string {
	var de *errors.DocError
	if stderrors.As(err, &de) {
		msg := de.FormatCompact()
		if de.Detail != "" {
			msg += "\n" + de.Detail
		}
		if de.Wrapped != nil {
			msg += "\n" + de.Wrapped.Error()
		}
		return msg
	}
	return err.Error()
}

// listReports returns the report file names in the reports directory.
func (s *Server) listReports() ([]string, error) {
	entries, err := os.ReadDir(s.config.ReportsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New("E204").WithDetail(s.config.ReportsPath()).Wrap(err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isReportName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isReportName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return (ext == ".yaml" || ext == ".yml") && !strings.HasPrefix(name, ".")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.listReports()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	root, body := html.NewPage(html.PageData{Title: "Reports"})
	body.AddChild("h1").SetInline(true).AddContent("Reports")
	if len(names) == 0 {
		body.AddParagraph().AddContent("No reports found in " + s.config.ReportsPath())
	} else {
		ul := body.AddChild("ul")
		for _, name := range names {
			ul.AddChild("li").SetInline(true).
				AddLink("/reports/" + name).SetInline(true).AddContent(name)
		}
	}
	s.writeDocument(w, r, "index", http.StatusOK, root)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !isReportName(name) || filepath.Base(name) != name {
		http.NotFound(w, r)
		return
	}

	rep, err := report.Load(filepath.Join(s.config.ReportsPath(), name))
	if err != nil {
		if errors.HasCode(err, "E203") {
			http.NotFound(w, r)
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeDocument(w, r, name, http.StatusOK, rep.Build())
}

// writeError renders err as a document, so that an open preview keeps its
// reload script and recovers once the report is fixed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("preview request failed", "path", r.URL.Path, "error", err)

	root, body := html.NewPage(html.PageData{Title: "htmldoc error"})
	body.AddChild("h1").SetInline(true).AddContent(http.StatusText(status))
	body.AddChild("pre").SetClass("error").SetInline(true).AddContent(formatError(err))
	s.writeDocument(w, r, "error", status, root)
}

// writeDocument streams root to w, adding the live reload script.
func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, source string, status int, root *html.Element) {
	if s.reloadServer != nil {
		if body := findChild(root, "body"); body != nil {
			html.AddScript(body, html.ScriptTag{Inline: ClientScript})
		}
	}

	_, span := s.tracer.StartRender(r.Context(), source)
	start := time.Now()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	cw := &telemetry.CountingWriter{W: w}
	renderer := html.NewStreamingRenderer(cw, html.RendererConfig{Indent: s.config.Render.Indent}, s.config.Render.FlushBytes)
	err := renderer.Render(root)

	s.metrics.ObserveRender(source, time.Since(start), cw.N, err)
	telemetry.End(span, err)
	if err != nil {
		s.logger.Debug("document write failed", "source", source, "error", err)
	}
}

func findChild(e *html.Element, tag string) *html.Element {
	for _, c := range e.Children() {
		if !c.IsContent() && c.Tag() == tag {
			return c
		}
	}
	return nil
}
