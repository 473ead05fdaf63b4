package routepath

import "strings"

// NormalizeBase returns base with exactly one leading and one trailing
// slash. An empty base is the root. Bases must be absolute paths without a
// query and must canonicalize to themselves.
func NormalizeBase(base string) (string, error) {
	if base == "" || base == "/" {
		return "/", nil
	}
	if !strings.HasPrefix(base, "/") || strings.ContainsAny(base, "?#") {
		return "", ErrInvalidPath
	}
	res, err := CanonicalizePath(base)
	if err != nil {
		return "", err
	}
	if res.Path == "/" {
		return "/", nil
	}
	if res.Path != strings.TrimSuffix(base, "/") {
		return "", ErrInvalidPath
	}
	return res.Path + "/", nil
}

// StripBase removes a normalized base from a canonical path. The base
// without its trailing slash maps to "/". It reports false when path is not
// under base.
func StripBase(path, base string) (string, bool) {
	if base == "/" {
		return path, true
	}
	if path == strings.TrimSuffix(base, "/") {
		return "/", true
	}
	rest, ok := strings.CutPrefix(path, base)
	if !ok {
		return "", false
	}
	return "/" + rest, true
}

// JoinBase prefixes a route path with a normalized base. The result is
// canonical: the root under "/x/" is "/x".
func JoinBase(base, path string) string {
	if base == "/" {
		return path
	}
	if path == "/" {
		return strings.TrimSuffix(base, "/")
	}
	return strings.TrimSuffix(base, "/") + path
}
