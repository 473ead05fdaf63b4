package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	perrors "github.com/apillot/portfolio/internal/errors"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeContent ChangeType = iota
	ChangeCSS
	ChangeAsset
)

// String returns the string representation of the ChangeType.
func (t ChangeType) String() string {
	switch t {
	case ChangeContent:
		return "content"
	case ChangeCSS:
		return "css"
	case ChangeAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore patterns to skip (names, path segments or globs).
	Ignore []string

	// Debounce is how long events must settle before OnChange fires.
	Debounce time.Duration

	// Logger receives watcher diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
	".#*",
}

// Watcher monitors directories for changes.
type Watcher struct {
	config   WatcherConfig
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	onChange func([]Change)

	mu      sync.Mutex
	running bool
	pending map[string]ChangeType
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, perrors.New("H002").Wrap(err)
	}

	return &Watcher{
		config:  config,
		fsw:     fsw,
		logger:  logger,
		pending: make(map[string]ChangeType),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// OnChange sets the callback for settled batches of changes. It runs on
// the watcher's goroutine.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start registers every directory under the configured paths and begins
// watching in the background. It returns once the directories are
// registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, root := range w.config.Paths {
		if err := w.addTree(root); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			w.fsw.Close()
			return perrors.New("H002").WithDetail(root).Wrap(err)
		}
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("closing watcher", "error", err)
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// addTree watches root and every directory below it. fsnotify watches are
// not recursive.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				timer.Reset(w.config.Debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		case <-timer.C:
			w.flush()
		}
	}
}

// handleEvent records a relevant event and reports whether it was kept.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod || w.shouldIgnore(event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watching new directory", "path", event.Name, "error", err)
			}
			return false
		}
	}

	w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	w.pending[event.Name] = classifyChange(event.Name)
	w.mu.Unlock()
	return true
}

// flush delivers the settled batch in path order.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changes := make([]Change, 0, len(w.pending))
	for p, t := range w.pending {
		changes = append(changes, Change{Path: p, Type: t})
	}
	clear(w.pending)
	callback := w.onChange
	w.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	if callback != nil {
		callback(changes)
	}
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}
		if pathHasSegment(normalized, pattern) {
			return true
		}
	}
	return false
}

func pathHasSegment(path, segment string) bool {
	for _, part := range strings.Split(path, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

// classifyChange determines the type of change based on file extension.
func classifyChange(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return ChangeContent
	case ".css":
		return ChangeCSS
	default:
		return ChangeAsset
	}
}

// Kind summarises a batch: content wins over assets, and a batch of only
// stylesheets is a CSS change.
func Kind(changes []Change) ChangeType {
	kind := ChangeCSS
	for _, c := range changes {
		switch c.Type {
		case ChangeContent:
			return ChangeContent
		case ChangeAsset:
			kind = ChangeAsset
		}
	}
	return kind
}
