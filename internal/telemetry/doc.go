// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for rendering, publishing and the preview server.
//
// Both Metrics and Tracer may be nil. Every method on a nil receiver is a
// no-op, so callers do not need to check whether telemetry is enabled:
//
//	var m *telemetry.Metrics
//	if cfg.Metrics.Enabled {
//	    m = telemetry.NewMetrics(telemetry.WithNamespace(cfg.Metrics.Namespace))
//	}
//	m.ObserveRender("nightly.yaml", time.Since(start), n, err) // safe either way
//
// Spans are created through the global tracer provider. Configure it in
// main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
package telemetry
