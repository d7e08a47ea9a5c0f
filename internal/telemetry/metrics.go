package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is the default metrics namespace.
const DefaultNamespace = "htmldoc"

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "htmldoc").
	Namespace string

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: DefaultNamespace,
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the htmldoc collectors.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	reloadClients  prometheus.Gauge
	publishTotal   *prometheus.CounterVec
}

// NewMetrics registers the htmldoc collectors and returns them.
//
// Metrics collected:
//   - htmldoc_renders_total: Counter of renders by source and status
//   - htmldoc_render_duration_seconds: Histogram of render duration
//   - htmldoc_render_bytes: Histogram of document size
//   - htmldoc_http_requests_total: Counter of preview requests by route and code
//   - htmldoc_reload_clients: Gauge of connected live reload clients
//   - htmldoc_publish_total: Counter of uploads by status
//
// Registering twice on the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Namespace == "" {
		config.Namespace = DefaultNamespace
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "renders_total",
			Help:      "Total number of rendered documents",
		}, []string{"source", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "render_duration_seconds",
			Help:      "Document rendering duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"source"}),

		renderBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "render_bytes",
			Help:      "Size of rendered documents in bytes",
			Buckets:   prometheus.ExponentialBuckets(512, 4, 8), // 512B to 8MB
		}, []string{"source"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of preview server requests",
		}, []string{"route", "code"}),

		reloadClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "reload_clients",
			Help:      "Number of connected live reload clients",
		}),

		publishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "publish_total",
			Help:      "Total number of published documents",
		}, []string{"status"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRender records one rendered document.
func (m *Metrics) ObserveRender(source string, duration time.Duration, bytes int64, err error) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(source, status(err)).Inc()
	m.renderDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err == nil {
		m.renderBytes.WithLabelValues(source).Observe(float64(bytes))
	}
}

// ObservePublish records one upload attempt.
func (m *Metrics) ObservePublish(err error) {
	if m == nil {
		return
	}
	m.publishTotal.WithLabelValues(status(err)).Inc()
}

// SetReloadClients sets the number of connected live reload clients.
func (m *Metrics) SetReloadClients(n int) {
	if m == nil {
		return
	}
	m.reloadClients.Set(float64(n))
}

// Middleware counts requests by chi route pattern and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.httpRequests.WithLabelValues(routePattern(r), strconv.Itoa(code)).Inc()
	})
}

// routePattern returns the matched chi pattern, so that label values do
// not grow with every report name.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
