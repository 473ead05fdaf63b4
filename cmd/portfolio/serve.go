package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/apillot/portfolio"
	"github.com/apillot/portfolio/internal/config"
	"github.com/apillot/portfolio/internal/dev"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr    string
		devMode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

With --dev, content and static files are watched. A content change
rebuilds the route table and reloads connected browsers. A stylesheet
change is swapped in place.

Examples:
  portfolio serve
  portfolio serve --addr=:3000
  BASE_URL=/portfolio/ portfolio serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFromEnv(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if devMode {
				cfg.Dev.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg))
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Watch content and reload browsers on change")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Dev.Enabled {
		watcher, err := watchContent(ctx, cfg, app, logger)
		if err != nil {
			return err
		}
		if watcher != nil {
			defer watcher.Stop()
		}
		defer app.Reload().Close()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", cfg.Server.Addr,
			"base", app.Base(),
			"content", cfg.ContentSource(),
			"dev", cfg.Dev.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// watchContent rebuilds the app when content changes. Embedded and S3
// content cannot change under the process, so only the directories on disk
// are watched. It returns nil when there is nothing to watch.
func watchContent(ctx context.Context, cfg *config.Config, app *portfolio.App, logger *slog.Logger) (*dev.Watcher, error) {
	var paths []string
	if cfg.ContentSource() == config.SourceDir {
		paths = append(paths, cfg.ContentDir())
	}
	if dir := cfg.StaticDir(); dir != "" {
		paths = append(paths, dir)
	}
	if len(paths) == 0 {
		logger.Info("dev mode without a content directory; nothing to watch")
		return nil, nil
	}

	watcher, err := dev.NewWatcher(dev.WatcherConfig{
		Paths:    paths,
		Debounce: cfg.Dev.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	watcher.OnChange(func(changes []dev.Change) {
		applyChanges(app, changes, logger)
	})
	if err := watcher.Start(ctx); err != nil {
		return nil, err
	}
	return watcher, nil
}

// applyChanges reacts to one debounced batch of file changes.
func applyChanges(app *portfolio.App, changes []dev.Change, logger *slog.Logger) {
	reload := app.Reload()
	if reload == nil {
		return
	}

	// The client refreshes every stylesheet on one message.
	if dev.Kind(changes) == dev.ChangeCSS {
		reload.NotifyCSS(changes[0].Path)
		return
	}

	start := time.Now()
	if err := app.Rebuild(); err != nil {
		logger.Error("rebuild failed", "error", err)
		reload.NotifyError(err.Error())
		return
	}
	logger.Info("rebuilt", "changes", len(changes), "duration", time.Since(start))
	reload.NotifyReload()
}
