// Package config loads the portfolio server configuration.
//
// The configuration lives in portfolio.toml next to the binary or at the
// path given with --config. Every key is optional. Environment variables
// override the file.
//
// # Configuration File Structure
//
//	[server]
//	addr = ":8080"
//	base_path = "/"
//	shutdown_timeout = "10s"
//
//	[site]
//	author = "Anthony PILLOT"
//	tagline = "Full-stack developer"
//	lang = "en"
//
//	[content]
//	dir = "content"            # or [content.s3], not both
//	load_timeout = "30s"
//
//	[content.s3]
//	bucket = "portfolio-content"
//	prefix = "site/"
//	region = "eu-west-3"
//	endpoint = ""
//	path_style = false
//
//	[static]
//	dir = "public"
//	stylesheets = ["site.css"]
//
//	[dev]
//	enabled = false
//	debounce = "200ms"
//
//	[metrics]
//	enabled = true
//	namespace = "portfolio"
//
//	[log]
//	level = "info"             # debug, info, warn, error
//	format = "text"            # text, json
//
// # Environment
//
//	BASE_URL               base path, overrides server.base_path
//	PORTFOLIO_ADDR         listen address, overrides server.addr
//	PORTFOLIO_CONTENT_DIR  content directory, overrides content.dir
//	PORTFOLIO_DEV          enables dev mode (1, true, 0, false)
//
// # Usage
//
//	cfg, err := config.LoadOptional("portfolio.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
