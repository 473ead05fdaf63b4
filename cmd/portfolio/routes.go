package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/apillot/portfolio"
)

func routesCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Print the route table in registration order.

Nothing is loaded: every lazy route shows as unresolved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFromEnv(*configPath)
			if err != nil {
				return err
			}
			app, err := newApp(cfg, slog.New(slog.DiscardHandler))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(app.RouteInfos())
			}
			printRoutes(cmd.OutOrStdout(), app.Base(), app.RouteInfos())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the routes as JSON")

	return cmd
}

func printRoutes(w io.Writer, base string, infos []portfolio.RouteInfo) {
	t := newTable(fmt.Sprintf("Routes (base %s)", base), "NAME", "PATH", "URL", "LOAD", "CHUNK")
	for _, info := range infos {
		load := "eager"
		if info.Lazy {
			load = "lazy"
		}
		chunk := info.Chunk
		if chunk == "" {
			chunk = "-"
		}
		t.addRow(info.Name, info.Path, info.URL, load, chunk)
	}
	fmt.Fprint(w, t.render())
}
