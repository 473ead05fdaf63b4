// Package portfolio is the application shell of the portfolio website.
//
// It owns the live route table, renders pages on the server and exposes
// everything through a single http.Handler:
//
//	app, err := portfolio.New(portfolio.Config{BasePath: "/"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", app)
package portfolio

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/atomic"
	"golang.org/x/text/language"

	"github.com/apillot/portfolio/internal/dev"
	"github.com/apillot/portfolio/internal/i18n"
	"github.com/apillot/portfolio/pkg/assets"
	"github.com/apillot/portfolio/pkg/content"
	"github.com/apillot/portfolio/pkg/middleware"
	"github.com/apillot/portfolio/pkg/routepath"
	"github.com/apillot/portfolio/pkg/router"
	"github.com/apillot/portfolio/pkg/views"
)

// Data is the application's default data, shared by every page.
type Data struct {
	// Author is credited in the header and footer.
	Author string

	// Tagline appears under the greeting on the home page.
	Tagline string
}

// DefaultData returns the data the application starts with.
func DefaultData() Data {
	return Data{Author: "Anthony PILLOT"}
}

// Option configures an App.
type Option func(*App)

// WithData replaces the default data.
func WithData(d Data) Option {
	return func(a *App) {
		a.data = d
	}
}

// OnCreated registers a hook that runs once the application is created.
func OnCreated(fn func(*App)) Option {
	return func(a *App) {
		a.createdHooks = append(a.createdHooks, fn)
	}
}

// App is the portfolio application.
type App struct {
	config  Config
	data    Data
	base    string
	content content.Source
	logger  *slog.Logger

	bundle  *i18n.Bundle
	metrics *middleware.Metrics
	reload  *dev.Hub

	// table is swapped whole by Rebuild; each table stays immutable.
	table atomic.Pointer[router.Table]

	staticFS http.FileSystem
	// manifest maps static names to fingerprinted ones; nil when the
	// static directory has none.
	manifest atomic.Pointer[assets.Manifest]
	handler  http.Handler

	createdHooks []func(*App)
	createdOnce  sync.Once
	createdAt    time.Time
}

// New creates the application, builds its route table and runs the
// created hook.
func New(cfg Config, opts ...Option) (*App, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "/"
	}
	if cfg.Content == nil {
		cfg.Content = content.Defaults()
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "portfolio"
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, err := routepath.NormalizeBase(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	bundle, err := i18n.New(fallbackLanguage(cfg.Lang))
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  cfg,
		data:    DefaultData(),
		base:    base,
		content: cfg.Content,
		logger:  logger,
		bundle:  bundle,
	}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.Metrics.Enabled {
		a.metrics = middleware.NewMetrics(middleware.WithNamespace(cfg.Metrics.Namespace))
	}
	if cfg.DevMode {
		a.reload = dev.NewHub()
	}
	if cfg.Static.Dir != "" {
		a.staticFS = http.Dir(cfg.Static.Dir)
	}

	table, err := a.buildTable()
	if err != nil {
		return nil, err
	}
	manifest, err := a.loadManifest()
	if err != nil {
		return nil, err
	}
	a.table.Store(table)
	a.manifest.Store(manifest)
	a.handler = a.routes()

	a.Created()
	return a, nil
}

// fallbackLanguage maps the configured language onto a supported one.
func fallbackLanguage(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	base, _ := tag.Base()
	switch base.String() {
	case "fr":
		return language.French
	default:
		return language.English
	}
}

func (a *App) buildTable() (*router.Table, error) {
	opts := []router.Option{
		router.WithBase(a.base),
		router.WithTracerProvider(a.config.TracerProvider),
		router.WithLogger(a.logger),
	}
	if a.config.LoadTimeout != 0 {
		opts = append(opts, router.WithLoadTimeout(a.config.LoadTimeout))
	}
	if a.metrics != nil {
		opts = append(opts, router.WithObserver(a.metrics))
	}
	return router.New(views.Routes(a.site(), a.content), opts...)
}

// loadManifest reads the static directory's asset manifest, if any.
func (a *App) loadManifest() (*assets.Manifest, error) {
	if a.config.Static.Dir == "" {
		return nil, nil
	}
	m, err := assets.Load(os.DirFS(a.config.Static.Dir), assets.ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return m, err
}

func (a *App) site() views.Site {
	return views.Site{Author: a.data.Author, Tagline: a.data.Tagline}
}

// Created is the application's created lifecycle hook. New runs it once
// the table and handler are ready: it stamps the creation time, logs the
// startup and runs the OnCreated hooks. Later calls do nothing.
func (a *App) Created() {
	a.createdOnce.Do(func() {
		a.createdAt = time.Now()
		table := a.Table()
		a.logger.Info("portfolio created",
			"author", a.data.Author,
			"base", a.base,
			"routes", len(table.Routes()),
			"dev", a.config.DevMode,
			"metrics", a.metrics != nil,
		)
		for _, hook := range a.createdHooks {
			hook(a)
		}
	})
}

// CreatedAt returns when the created hook ran.
func (a *App) CreatedAt() time.Time {
	return a.createdAt
}

// Data returns the application's data.
func (a *App) Data() Data {
	return a.data
}

// Base returns the normalized base path.
func (a *App) Base() string {
	return a.base
}

// Table returns the live route table.
func (a *App) Table() *router.Table {
	return a.table.Load()
}

// Metrics returns the Prometheus metrics, or nil when disabled.
func (a *App) Metrics() *middleware.Metrics {
	return a.metrics
}

// Reload returns the live reload hub, or nil outside dev mode.
func (a *App) Reload() *dev.Hub {
	return a.reload
}

// Rebuild builds a fresh route table and swaps it in. Lazy views load again
// on their next navigation. Requests already holding the old table finish
// against it. The asset manifest is read again too.
func (a *App) Rebuild() error {
	table, err := a.buildTable()
	if err != nil {
		return err
	}
	manifest, err := a.loadManifest()
	if err != nil {
		return err
	}
	a.table.Store(table)
	a.manifest.Store(manifest)
	a.logger.Info("route table rebuilt")
	return nil
}

// Handler returns the application's HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
