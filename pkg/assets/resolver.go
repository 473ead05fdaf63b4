package assets

import "strings"

// Resolver turns a source asset name into the URL path pages link to.
type Resolver interface {
	// Asset resolves source to its full URL path, including the prefix and
	// the fingerprinted name, e.g. "site.css" to
	// "/static/site.e5f6a7b8.css".
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that looks names up in m and prepends
// prefix. A nil manifest behaves like NewPassthroughResolver.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(strings.TrimPrefix(source, "/"))
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that only prepends prefix.
// Dev mode uses it so edited files are linked by their plain names.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + strings.TrimPrefix(source, "/")
}
