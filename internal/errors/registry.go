package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Router Errors (R001-R019)
	// ============================================

	"R001": {
		Category:   CategoryRouter,
		Message:    "Duplicate route path",
		Suggestion: "Every route needs its own path. Remove or rename one of the entries.",
	},
	"R002": {
		Category:   CategoryRouter,
		Message:    "Duplicate route name",
		Suggestion: "Route names are used for named navigation and must be unique.",
	},
	"R003": {
		Category:   CategoryRouter,
		Message:    "Invalid route",
		Suggestion: "A route needs a path starting with \"/\", a name and a resolver.",
	},
	"R004": {
		Category:   CategoryRouter,
		Message:    "Invalid base path",
		Suggestion: "Use an absolute path such as \"/\" or \"/portfolio/\".",
	},
	"R005": {
		Category: CategoryRouter,
		Message:  "View failed to load",
	},

	// ============================================
	// Config Errors (C001-C019)
	// ============================================

	"C001": {
		Category:   CategoryConfig,
		Message:    "Cannot read config file",
		Suggestion: "Check the --config flag or create portfolio.toml.",
	},
	"C002": {
		Category:   CategoryConfig,
		Message:    "Invalid listen address",
		Suggestion: "Use host:port, for example \":8080\" or \"127.0.0.1:8080\".",
	},
	"C003": {
		Category:   CategoryConfig,
		Message:    "Unknown config key",
		Suggestion: "Remove the key or check its spelling against the documented sections.",
	},
	"C004": {
		Category:   CategoryConfig,
		Message:    "Conflicting content sources",
		Suggestion: "Set either [content] dir or [content.s3] bucket, not both.",
	},
	"C005": {
		Category:   CategoryConfig,
		Message:    "Invalid log setting",
		Suggestion: "level is one of debug, info, warn, error; format is text or json.",
	},
	"C006": {
		Category:   CategoryConfig,
		Message:    "Invalid base path",
		Suggestion: "BASE_URL and base_path must start with \"/\".",
	},
	"C007": {
		Category:   CategoryConfig,
		Message:    "Invalid environment variable",
		Suggestion: "Boolean variables accept 1, 0, true or false.",
	},
	"C008": {
		Category:   CategoryConfig,
		Message:    "Invalid content load timeout",
		Suggestion: "Set [content] load_timeout to a positive duration such as \"30s\".",
	},

	// ============================================
	// Content Errors (S001-S019)
	// ============================================

	"S001": {
		Category: CategoryContent,
		Message:  "Content document not found",
	},
	"S002": {
		Category:   CategoryContent,
		Message:    "Malformed content document",
		Suggestion: "Check the YAML syntax and field names of the document.",
	},
	"S003": {
		Category: CategoryContent,
		Message:  "Content source unavailable",
	},

	// ============================================
	// Server Errors (H001-H019)
	// ============================================

	"H001": {
		Category: CategoryServer,
		Message:  "Server failed",
	},
	"H002": {
		Category: CategoryServer,
		Message:  "Content watcher failed",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
