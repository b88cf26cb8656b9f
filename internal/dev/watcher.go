package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeDocument is an edit to an input document (.json / .yaml).
	ChangeDocument ChangeType = iota

	// ChangeConfig is an edit to the project configuration file.
	ChangeConfig

	// ChangeOther is any other file under a watched path.
	ChangeOther
)

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch.
	Paths []string

	// Ignore patterns to skip (globs or path segments).
	Ignore []string

	// Debounce is the polling interval.
	Debounce time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher monitors files for changes by polling modification times.
type Watcher struct {
	config      WatcherConfig
	onChange    func(Change)
	mu          sync.Mutex
	running     bool
	initialized bool
	stopCh      chan struct{}
	timestamps  map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching for file changes. It blocks until the context
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.scanInitial()

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// scanInitial builds the initial timestamp map.
func (w *Watcher) scanInitial() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, root := range w.config.Paths {
		w.walk(root, func(p string, modTime time.Time) {
			w.timestamps[p] = modTime
		})
	}

	w.initialized = true
}

// checkForChanges scans for modified or deleted files.
func (w *Watcher) checkForChanges() {
	w.mu.Lock()
	callback := w.onChange
	initialized := w.initialized
	w.mu.Unlock()

	if callback == nil {
		return
	}

	var changes []Change
	seen := make(map[string]bool)

	for _, root := range w.config.Paths {
		w.walk(root, func(p string, modTime time.Time) {
			seen[p] = true

			w.mu.Lock()
			lastMod, exists := w.timestamps[p]
			w.timestamps[p] = modTime
			w.mu.Unlock()

			if !exists || modTime.After(lastMod) {
				if exists || initialized {
					changes = append(changes, Change{Path: p, Type: classifyChange(p)})
				}
			}
		})
	}

	// Deleted files
	w.mu.Lock()
	for p := range w.timestamps {
		if !seen[p] {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				delete(w.timestamps, p)
				changes = append(changes, Change{Path: p, Type: classifyChange(p)})
			}
		}
	}
	w.mu.Unlock()

	// Coalesce: report the first change of each type per tick.
	reported := make(map[ChangeType]bool)
	for _, change := range changes {
		if !reported[change.Type] {
			reported[change.Type] = true
			callback(change)
		}
	}
}

// walk visits every non-ignored file under root. Root may be a plain
// file, which is visited directly.
func (w *Watcher) walk(root string, visit func(path string, modTime time.Time)) {
	info, err := os.Stat(root)
	if err != nil {
		return
	}
	if !info.IsDir() {
		if !w.shouldIgnore(root) {
			visit(root, info.ModTime())
		}
		return
	}

	filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.shouldIgnore(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.shouldIgnore(p) {
			visit(p, info.ModTime())
		}
		return nil
	})
}

// shouldIgnore checks if a path matches an ignore pattern. Patterns
// without a separator match the base name (optionally as a glob);
// patterns with separators must appear as path segments.
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
	if segment == "" {
		return false
	}
	for _, part := range strings.Split(path, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

// classifyChange determines the type of change based on the file name.
func classifyChange(path string) ChangeType {
	base := strings.ToLower(filepath.Base(path))
	if base == "omm.json" || base == "omm.yaml" {
		return ChangeConfig
	}
	switch filepath.Ext(base) {
	case ".json", ".yaml", ".yml":
		return ChangeDocument
	default:
		return ChangeOther
	}
}
