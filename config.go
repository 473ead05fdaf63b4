package portfolio

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/apillot/portfolio/pkg/content"
)

// Config is the application configuration. The zero value serves the
// embedded content at "/" with metrics disabled.
type Config struct {
	// BasePath mounts the site under a URL prefix, e.g. "/portfolio/".
	BasePath string

	// Content is where lazy views read their documents.
	// If nil, the documents embedded in the binary are used.
	Content content.Source

	// LoadTimeout bounds each lazy view load. Zero uses
	// router.DefaultLoadTimeout; a negative value disables the bound.
	LoadTimeout time.Duration

	// Lang is the fallback language when Accept-Language matches nothing.
	// Supported: "en" (default) and "fr".
	Lang string

	// Static configures static file serving.
	Static StaticConfig

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig

	// DevMode enables the live reload endpoint and disables static caching.
	DevMode bool

	// TracerProvider creates request and load spans.
	// If nil, the global provider is used.
	TracerProvider trace.TracerProvider

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// StaticConfig configures static file serving under {base}static/.
type StaticConfig struct {
	// Dir is the directory containing static files. Empty disables static
	// serving.
	Dir string

	// StyleSheets are files under Dir linked from every page, e.g.
	// "site.css".
	StyleSheets []string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled registers the metrics and serves them at /metrics.
	Enabled bool

	// Namespace prefixes every metric name. Default: "portfolio".
	Namespace string
}
