// Package middleware provides the observability layer of the portfolio
// server.
//
// # Prometheus Metrics
//
// Metrics collects HTTP request metrics and, as a router.Observer,
// navigation and lazy-load metrics:
//   - portfolio_navigations_total: navigations by route and status
//   - portfolio_navigation_duration_seconds: navigation latency by route
//   - portfolio_lazy_loads_total: lazy view loads by chunk and result
//   - portfolio_lazy_load_duration_seconds: lazy view load latency by chunk
//   - portfolio_http_requests_total: requests by code and method
//   - portfolio_http_request_duration_seconds: request latency by method
//
// Wire it into the router and the HTTP stack:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("portfolio"))
//	table, _ := router.New(routes, router.WithObserver(m))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
//
// Metrics are registered on their own registry, never the global one, so
// several instances can coexist in one process.
//
// # OpenTelemetry
//
// OpenTelemetry opens a server span per request. The incoming trace context
// is extracted from the request headers and the span is stored in the
// request context, so the router's load spans become its children.
//
// # Request Logging
//
// Logger writes one slog record per request with the status, size,
// duration and request ID.
package middleware
