package telemetry

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func newTestMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewMetrics(WithRegistry(reg), WithNamespace("test")), reg
}

func TestObserveRender(t *testing.T) {
	m, _ := newTestMetrics()

	m.ObserveRender("a.yaml", 10*time.Millisecond, 2048, nil)
	m.ObserveRender("a.yaml", 5*time.Millisecond, 0, errors.New("boom"))

	if got := counterValue(t, m.rendersTotal.WithLabelValues("a.yaml", "ok")); got != 1 {
		t.Errorf("ok renders = %v, want 1", got)
	}
	if got := counterValue(t, m.rendersTotal.WithLabelValues("a.yaml", "error")); got != 1 {
		t.Errorf("error renders = %v, want 1", got)
	}
	if got := histogramCount(t, m.renderDuration.WithLabelValues("a.yaml")); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
	if got := histogramCount(t, m.renderBytes.WithLabelValues("a.yaml")); got != 1 {
		t.Errorf("size samples = %d, want 1 (failed renders are not sized)", got)
	}
}

func TestObservePublishAndReloadClients(t *testing.T) {
	m, _ := newTestMetrics()

	m.ObservePublish(nil)
	m.ObservePublish(nil)
	m.ObservePublish(errors.New("denied"))
	m.SetReloadClients(3)

	if got := counterValue(t, m.publishTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok publishes = %v, want 2", got)
	}
	if got := counterValue(t, m.publishTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("failed publishes = %v, want 1", got)
	}
	if got := gaugeValue(t, m.reloadClients); got != 3 {
		t.Errorf("reload clients = %v, want 3", got)
	}
}

func TestMetricNames(t *testing.T) {
	m, reg := newTestMetrics()
	m.ObserveRender("x", time.Millisecond, 1, nil)
	m.ObservePublish(nil)
	m.SetReloadClients(1)
	m.httpRequests.WithLabelValues("/", "200").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	got := map[string]bool{}
	for _, f := range families {
		got[f.GetName()] = true
	}
	for _, name := range []string{
		"test_renders_total",
		"test_render_duration_seconds",
		"test_render_bytes",
		"test_http_requests_total",
		"test_reload_clients",
		"test_publish_total",
	} {
		if !got[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRender("x", time.Second, 1, nil)
	m.ObservePublish(nil)
	m.SetReloadClients(1)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if got := m.Middleware(h); got == nil {
		t.Error("Middleware on nil Metrics returned nil")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m, _ := newTestMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/reports/{name}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	})

	for _, path := range []string{"/reports/a", "/reports/b", "/reports/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := counterValue(t, m.httpRequests.WithLabelValues("/reports/{name}", "200")); got != 2 {
		t.Errorf("200 requests = %v, want 2", got)
	}
	if got := counterValue(t, m.httpRequests.WithLabelValues("/reports/{name}", "404")); got != 1 {
		t.Errorf("404 requests = %v, want 1", got)
	}
}

func TestMetricsMiddlewareKeepsFlusher(t *testing.T) {
	m, _ := newTestMetrics()

	var flushed bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
			flushed = true
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !flushed || !rec.Flushed {
		t.Error("wrapped writer does not forward Flush")
	}
}

func TestCountingWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := &CountingWriter{W: &buf}
	cw.Write([]byte("hello "))
	cw.Write([]byte("world"))

	if cw.N != 11 || buf.String() != "hello world" {
		t.Errorf("N = %d, buf = %q", cw.N, buf.String())
	}
}
