package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func checkCmd(configPath *string) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load every route once and report failures",
		Long: `Build the route table from the configured content and resolve every
lazy route once. Use it in CI to catch broken content before deploying.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFromEnv(*configPath)
			if err != nil {
				return err
			}
			app, err := newApp(cfg, slog.New(slog.DiscardHandler))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			start := time.Now()
			loadErr := app.Table().Preload(ctx)

			failed := 0
			for _, info := range app.RouteInfos() {
				if info.Resolved {
					success(out, "%s %s", info.Name, info.URL)
					continue
				}
				failed++
				failure(out, "%s %s", info.Name, info.URL)
			}
			if loadErr != nil {
				return loadErr
			}
			fmt.Fprintf(out, "\n%d routes ok in %s (content: %s)\n",
				len(app.RouteInfos())-failed, time.Since(start).Round(time.Millisecond), cfg.ContentSource())
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up after this long")

	return cmd
}
