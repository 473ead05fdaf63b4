package routepath

import (
	"errors"
	"strings"
)

// CanonicalizeResult contains the result of path canonicalization.
type CanonicalizeResult struct {
	// Path is the canonicalized path (without query string).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a navigation path.
//
// The following transformations are applied:
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/projects//x → /projects/x)
//   - Remove "." segments
//   - Resolve ".." segments (/about/../contact → /contact)
//
// Backslashes, NUL bytes, malformed percent-escapes and ".." above the root
// are rejected. A query string is split off and returned untouched.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	if strings.Contains(strings.ToUpper(path), "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return CanonicalizeResult{}, err
		}
	}

	res, err := CanonicalizeDecoded(path)
	if err != nil {
		return CanonicalizeResult{}, err
	}
	res.Query = query
	return res, nil
}

// CanonicalizeDecoded is CanonicalizePath for an already unescaped path,
// such as http.Request.URL.Path. A "%" is an ordinary character there and
// "?" is part of the path. Backslashes, NUL bytes and ".." above the root
// are still rejected.
func CanonicalizeDecoded(path string) (CanonicalizeResult, error) {
	if path == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}
	if strings.Contains(path, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}

	original := path

	segments := strings.Split(path, "/")
	result := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	path = "/" + strings.Join(result, "/")

	return CanonicalizeResult{
		Path:    path,
		Changed: path != original,
	}, nil
}

// validatePercentEscapes checks that all percent-escapes are %XX with two
// hex digits.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
