// Package middleware provides net/http middleware for serving nano pages.
//
// This package includes:
//   - OpenTelemetry tracing of every request
//   - Prometheus request metrics labeled by route pattern
//
// Both work with any http.Handler and pick up chi route patterns when the
// handler is a chi router, so high-cardinality paths like /p/{page} are
// reported once per route.
//
// # OpenTelemetry Middleware
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("nano-dev"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/metrics"
//	    }),
//	))
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Handlers reach the request span through
// trace.SpanFromContext(r.Context()).
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithNamespace("nano"))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - nano_http_requests_total: requests by route, method and status
//   - nano_http_request_duration_seconds: request duration by route
//   - nano_http_requests_in_flight: requests being served
package middleware
