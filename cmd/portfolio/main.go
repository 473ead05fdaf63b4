// Command portfolio serves the portfolio site and inspects its route table.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/apillot/portfolio/internal/config"
	perrors "github.com/apillot/portfolio/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		perrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Anthony PILLOT's portfolio site",
		Long: `Portfolio serves a server-rendered personal site.

Home is built into the binary. Experience, Projects, Contact, About and
the under-construction page load their content on first navigation and
keep it for the life of the process.

Settings come from portfolio.toml, then from the environment:
  BASE_URL               base path the site is mounted under
  PORTFOLIO_ADDR         listen address
  PORTFOLIO_CONTENT_DIR  read content from a directory
  PORTFOLIO_DEV          enable live reload (1 or 0)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigFileName, "Path to the configuration file")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		routesCmd(&configPath),
		checkCmd(&configPath),
		versionCmd(),
	)

	return rootCmd
}
