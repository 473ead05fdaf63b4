package portfolio

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Cache policies for static files.
const (
	cacheNone      = "no-store, no-cache, must-revalidate"
	cacheImmutable = "public, max-age=31536000, immutable"
	cacheShort     = "public, max-age=3600, must-revalidate"
)

// staticRelPath maps a request path under {base}static/ to a slash path
// inside the static directory. Anything that could escape the directory is
// refused: dot segments, empty segments, backslashes and NUL bytes.
func (a *App) staticRelPath(urlPath string) (string, bool) {
	if a.staticFS == nil {
		return "", false
	}
	rel, ok := strings.CutPrefix(urlPath, a.base+staticPath)
	if !ok || rel == "." || !fs.ValidPath(rel) || strings.ContainsAny(rel, "\\\x00") {
		return "", false
	}
	return rel, true
}

func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	rel, ok := a.staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := a.staticFS.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", a.cachePolicy(rel))
	http.ServeContent(w, r, rel, info.ModTime(), f)
}

func (a *App) cachePolicy(rel string) string {
	switch {
	case a.config.DevMode:
		return cacheNone
	case isFingerprinted(rel):
		return cacheImmutable
	default:
		return cacheShort
	}
}

// isFingerprinted reports whether the name carries a content hash of at
// least eight hex digits before its extension, as in "site.e5f6a7b8.css".
func isFingerprinted(rel string) bool {
	name := path.Base(rel)
	stem := strings.TrimSuffix(name, path.Ext(name))
	dot := strings.LastIndexByte(stem, '.')
	if dot < 0 {
		return false
	}
	hash := stem[dot+1:]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
