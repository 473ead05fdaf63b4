package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// ErrNotExist is returned when a document is missing from a source.
var ErrNotExist = errors.New("content: document does not exist")

// Source serves raw content documents by key.
type Source interface {
	Open(ctx context.Context, key string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, key string) ([]byte, error)

// Open implements Source.
func (f SourceFunc) Open(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

//go:embed defaults/*.yaml
var defaultFS embed.FS

// Defaults returns the documents embedded in the binary.
func Defaults() *FSSource {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub)
}

// FSSource reads documents from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// DirSource reads documents from a directory on disk.
func DirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validKey(key) {
		return nil, fmt.Errorf("content: invalid key %q", key)
	}
	data, err := fs.ReadFile(s.fsys, key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	if err != nil {
		return nil, fmt.Errorf("content: reading %s: %w", key, err)
	}
	return data, nil
}

// validKey accepts slash-separated relative keys without dot segments.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	return path.Clean(key) == key && fs.ValidPath(key)
}
