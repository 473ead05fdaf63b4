package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/apillot/portfolio"
	"github.com/apillot/portfolio/internal/config"
	"github.com/apillot/portfolio/pkg/content"
)

// loadConfig reads the optional config file, applies the environment and
// validates the result.
func loadConfig(path string, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.LoadOptional(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFromEnv(path string) (*config.Config, error) {
	return loadConfig(path, os.LookupEnv)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func contentSource(cfg *config.Config) content.Source {
	switch cfg.ContentSource() {
	case config.SourceDir:
		return content.DirSource(cfg.ContentDir())
	case config.SourceS3:
		s3cfg := cfg.Content.S3
		client := content.NewS3Client(s3cfg.Region, s3cfg.Endpoint, s3cfg.PathStyle)
		return content.NewS3Source(client, s3cfg.Bucket, s3cfg.Prefix)
	default:
		return content.Defaults()
	}
}

func newApp(cfg *config.Config, logger *slog.Logger, opts ...portfolio.Option) (*portfolio.App, error) {
	opts = append([]portfolio.Option{portfolio.WithData(portfolio.Data{
		Author:  cfg.Site.Author,
		Tagline: cfg.Site.Tagline,
	})}, opts...)

	return portfolio.New(portfolio.Config{
		BasePath:    cfg.BasePath(),
		Content:     contentSource(cfg),
		LoadTimeout: cfg.Content.LoadTimeout,
		Lang:        cfg.Site.Lang,
		Static: portfolio.StaticConfig{
			Dir:         cfg.StaticDir(),
			StyleSheets: cfg.Static.StyleSheets,
		},
		Metrics: portfolio.MetricsConfig{
			Enabled:   cfg.Metrics.Enabled,
			Namespace: cfg.Metrics.Namespace,
		},
		DevMode: cfg.Dev.Enabled,
		Logger:  logger,
	}, opts...)
}
