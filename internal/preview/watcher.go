package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vango-dev/htmldoc/internal/errors"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeReport is a report description (*.yaml, *.yml).
	ChangeReport ChangeType = iota
	// ChangeStyle is a stylesheet referenced by reports.
	ChangeStyle
	// ChangeAsset is any other file.
	ChangeAsset
)

func (t ChangeType) String() string {
	switch t {
	case ChangeReport:
		return "report"
	case ChangeStyle:
		return "style"
	default:
		return "asset"
	}
}

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, including subdirectories.
	Paths []string

	// Ignore patterns to skip (names, path segments or globs).
	Ignore []string

	// Debounce is the quiet period after the last event before changes
	// are reported.
	Debounce time.Duration

	// Logger receives watcher errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	".htmldoc",
	"*.tmp",
	"*.swp",
	"*~",
	".#*",
}

// Watcher reports batches of file changes below a set of directories.
type Watcher struct {
	config   WatcherConfig
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	mu       sync.Mutex
	onChange func([]Change)
	pending  map[string]Change
	timer    *time.Timer
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.New("E501").Wrap(err)
	}

	return &Watcher{
		config:  config,
		fs:      fsw,
		logger:  config.Logger,
		pending: make(map[string]Change),
	}, nil
}

// OnChange sets the callback for file changes. It is called from the
// watcher's timer goroutine with every change seen since the last call,
// sorted by path.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start adds the configured paths and processes events until ctx is
// cancelled. The underlying watcher is closed when Start returns.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.close()

	for _, p := range w.config.Paths {
		if err := w.addTree(p); err != nil {
			return errors.New("E501").WithDetail(p).Wrap(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// addTree watches root and every directory below it that is not ignored.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
			}
			return
		}
		w.queue(Change{Path: event.Name, Type: classifyChange(event.Name)})
	case event.Has(fsnotify.Write):
		w.queue(Change{Path: event.Name, Type: classifyChange(event.Name)})
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.queue(Change{Path: event.Name, Type: classifyChange(event.Name), Removed: true})
	}
}

// queue records a change and restarts the debounce timer.
func (w *Watcher) queue(c Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[c.Path] = c
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	callback := w.onChange
	changes := make([]Change, 0, len(w.pending))
	for _, c := range w.pending {
		changes = append(changes, c)
	}
	w.pending = make(map[string]Change)
	w.mu.Unlock()

	if callback == nil || len(changes) == 0 {
		return
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	callback(changes)
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.fs.Close(); err != nil {
		w.logger.Error("error closing file watcher", "error", err)
	}
}

// relative returns p relative to the watched directory containing it, so
// that ignore patterns never match the directories above it.
func (w *Watcher) relative(p string) string {
	for _, root := range w.config.Paths {
		if rel, err := filepath.Rel(root, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rel
		}
	}
	return p
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(w.relative(fullPath))

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/") || strings.Contains(pattern, "\\")
		hasGlob := strings.ContainsAny(pattern, "*?[")

		if hasGlob {
			if hasPathSep {
				if matched, _ := path.Match(filepath.ToSlash(pattern), normalized); matched {
					return true
				}
			} else if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if pathMatchesSegments(normalized, filepath.ToSlash(pattern)) {
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

func pathHasSegment(p, segment string) bool {
	for _, part := range splitPathSegments(p) {
		if part == segment {
			return true
		}
	}
	return false
}

// pathMatchesSegments reports whether pattern's segments appear as a
// contiguous run in p.
func pathMatchesSegments(p, pattern string) bool {
	pathParts := splitPathSegments(p)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		match := true
		for j := range patternParts {
			if pathParts[i+j] != patternParts[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func splitPathSegments(p string) []string {
	var result []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// classifyChange determines the type of change based on file extension.
func classifyChange(p string) ChangeType {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return ChangeReport
	case ".css":
		return ChangeStyle
	default:
		return ChangeAsset
	}
}
