package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/apillot/portfolio/internal/errors"
	"github.com/apillot/portfolio/pkg/routepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "portfolio.toml"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultAuthor is the site author shown on every page.
	DefaultAuthor = "Anthony PILLOT"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "portfolio"
)

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL    = "BASE_URL"
	EnvAddr       = "PORTFOLIO_ADDR"
	EnvContentDir = "PORTFOLIO_CONTENT_DIR"
	EnvDev        = "PORTFOLIO_DEV"
)

// Content source kinds returned by ContentSource.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceS3       = "s3"
)

// Config represents the complete portfolio.toml configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Site    SiteConfig    `toml:"site"`
	Content ContentConfig `toml:"content"`
	Static  StaticConfig  `toml:"static"`
	Dev     DevConfig     `toml:"dev"`
	Metrics MetricsConfig `toml:"metrics"`
	Log     LogConfig     `toml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// BasePath mounts the site under a URL prefix.
	BasePath string `toml:"base_path"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// SiteConfig contains the data shown on every page.
type SiteConfig struct {
	Author  string `toml:"author"`
	Tagline string `toml:"tagline"`

	// Lang is the fallback language when Accept-Language matches nothing.
	Lang string `toml:"lang"`
}

// ContentConfig selects where lazy views read their documents. With
// neither Dir nor S3.Bucket set, the documents embedded in the binary are
// used.
type ContentConfig struct {
	Dir string   `toml:"dir"`
	S3  S3Config `toml:"s3"`

	// LoadTimeout bounds each lazy view load.
	LoadTimeout time.Duration `toml:"load_timeout"`
}

// S3Config points at a bucket holding the content documents.
type S3Config struct {
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory served under {base}static/. Empty disables it.
	Dir string `toml:"dir"`

	// StyleSheets are files under Dir linked from every page.
	StyleSheets []string `toml:"stylesheets"`
}

// DevConfig contains development mode settings.
type DevConfig struct {
	// Enabled turns on content watching and browser live reload.
	Enabled bool `toml:"enabled"`

	// Debounce is how long the watcher waits for changes to settle.
	Debounce time.Duration `toml:"debounce"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			BasePath:        "/",
			ShutdownTimeout: 10 * time.Second,
		},
		Site: SiteConfig{
			Author: DefaultAuthor,
			Lang:   "en",
		},
		Content: ContentConfig{
			LoadTimeout: 30 * time.Second,
		},
		Dev: DevConfig{
			Debounce: 200 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for portfolio.toml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Keys that do
// not map to a field are an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.New("C001").
				WithDetail("No " + ConfigFileName + " found at " + path).
				Wrap(err)
		}
		return nil, perrors.New("C001").WithDetail(path).Wrap(err)
	}

	cfg := New()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, perrors.New("C001").
			WithDetailf("Failed to parse %s: %v", path, err).
			WithSuggestion("Check that the file is valid TOML").
			Wrap(err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, perrors.New("C003").
			WithDetailf("%s: %s", path, strings.Join(keys, ", "))
	}

	cfg.configPath = path
	return cfg, nil
}

// LoadOptional is like LoadFile but returns the defaults when the file does
// not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	return LoadFile(path)
}

// ApplyEnv overrides file settings with environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.Server.BasePath = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvContentDir); ok && v != "" {
		c.Content.Dir = v
		c.Content.S3 = S3Config{}
	}
	if v, ok := lookup(EnvDev); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return perrors.New("C007").WithDetailf("%s=%q", EnvDev, v).Wrap(err)
		}
		c.Dev.Enabled = enabled
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, perrors.New("C002").WithDetailf("%q: %v", c.Server.Addr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errs = append(errs, perrors.New("C002").WithDetailf("%q: bad port %q", c.Server.Addr, port))
	}

	if _, err := routepath.NormalizeBase(c.Server.BasePath); err != nil {
		errs = append(errs, perrors.New("C006").WithDetailf("%q: %v", c.Server.BasePath, err).Wrap(err))
	}

	if c.Content.Dir != "" && c.Content.S3.Bucket != "" {
		errs = append(errs, perrors.New("C004").
			WithDetailf("dir %q and bucket %q", c.Content.Dir, c.Content.S3.Bucket))
	}
	if c.Content.LoadTimeout <= 0 {
		errs = append(errs, perrors.New("C008").
			WithDetailf("load_timeout %v must be positive", c.Content.LoadTimeout))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, perrors.New("C005").WithDetail(err.Error()))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, perrors.New("C005").WithDetailf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// BasePath returns the normalized base path. Call it after Validate.
func (c *Config) BasePath() string {
	base, err := routepath.NormalizeBase(c.Server.BasePath)
	if err != nil {
		return "/"
	}
	return base
}

// ContentSource reports which content source the settings select.
func (c *Config) ContentSource() string {
	switch {
	case c.Content.S3.Bucket != "":
		return SourceS3
	case c.Content.Dir != "":
		return SourceDir
	default:
		return SourceEmbedded
	}
}

// ContentDir returns the content directory, resolved against the config
// file's directory when relative.
func (c *Config) ContentDir() string {
	return c.resolve(c.Content.Dir)
}

// StaticDir returns the static directory, resolved against the config
// file's directory when relative.
func (c *Config) StaticDir() string {
	return c.resolve(c.Static.Dir)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// SlogLevel returns the configured log level, info when invalid.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "error":
		err := level.UnmarshalText([]byte(s))
		return level, err
	default:
		return level, errors.New("unknown log level " + strconv.Quote(s))
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
