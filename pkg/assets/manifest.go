// Package assets resolves static file names to their fingerprinted versions.
//
// A deploy step may fingerprint the static directory and write a
// manifest.json next to the files, mapping each source name to the name
// that is actually served:
//
//	{
//	  "site.css": "site.e5f6a7b8.css",
//	  "img/avatar.png": "img/avatar.0c1d2e3f.png"
//	}
//
// Pages link the fingerprinted names, which the static handler serves with
// an immutable cache policy. Without a manifest, names pass through
// unchanged:
//
//	manifest, err := assets.Load(os.DirFS("public"), assets.ManifestFile)
//	if errors.Is(err, fs.ErrNotExist) {
//		manifest = nil
//	}
//	resolver := assets.NewResolver(manifest, "/portfolio/static/")
//	resolver.Asset("site.css") // "/portfolio/static/site.e5f6a7b8.css"
package assets

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ManifestFile is the manifest's name inside the static directory.
const ManifestFile = "manifest.json"

// Manifest maps source asset names to fingerprinted names. It is immutable
// once built and safe for concurrent use.
type Manifest struct {
	entries map[string]string
}

// NewManifest builds a manifest from entries. Every name must be a clean
// relative slash path.
func NewManifest(entries map[string]string) (*Manifest, error) {
	m := &Manifest{entries: make(map[string]string, len(entries))}
	for source, resolved := range entries {
		if !validName(source) || !validName(resolved) {
			return nil, fmt.Errorf("assets: invalid manifest entry %q: %q", source, resolved)
		}
		m.entries[source] = resolved
	}
	return m, nil
}

// Parse decodes a JSON manifest.
func Parse(data []byte) (*Manifest, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("assets: decoding manifest: %w", err)
	}
	return NewManifest(entries)
}

// Load reads and parses the manifest called name in fsys. A missing file
// is reported with an error matching fs.ErrNotExist.
func Load(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Resolve returns the fingerprinted name for source, or source itself when
// the manifest has no entry. A nil manifest resolves everything to itself.
func (m *Manifest) Resolve(source string) string {
	if m == nil {
		return source
	}
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest has an entry for source.
func (m *Manifest) Has(source string) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[source]
	return ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.ContainsAny(name, "\\\x00") {
		return false
	}
	return path.Clean(name) == name && name != ".." && !strings.HasPrefix(name, "../")
}
