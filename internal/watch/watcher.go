// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs an export when the files of a map project change.
//
// Filesystem events under the project folder are filtered against the inputs
// an export reads (projectFile.gbi, the icon and banner images, MapData and
// CustomTextures). Events that arrive within the debounce window are combined
// into one callback that receives every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
// Editors and GoreBox write a project as several events; 500ms covers a save.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned when Run is called on a watcher that has
// already been started.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

var (
	// projectPatterns match the files an export reads, relative to the
	// project folder.
	projectPatterns = []string{
		"projectFile.gbi",
		"icon.png",
		"banner.png",
		"MapData/*",
		"CustomTextures/*",
	}

	// defaultIgnores exclude editor swap files, OS metadata and the temporary
	// files the exporter itself writes next to a container.
	defaultIgnores = []string{
		"**/*.tmp",
		"**/*.swp",
		"**/*~",
		"**/.DS_Store",
		"**/Thumbs.db",
		"**/desktop.ini",
	}
)

type (
	// OnChangeFunc is invoked with the changed paths, relative to the
	// project folder and slash-separated.
	OnChangeFunc func(ctx context.Context, changed []string) error

	// Config holds the parameters for a Watcher.
	Config struct {
		// ProjectDir is the map project folder to watch.
		ProjectDir string

		// Patterns select the paths that trigger a callback. Nil uses the
		// project inputs returned by ProjectPatterns.
		Patterns []string

		// Ignore lists extra patterns that never trigger a callback, for
		// example the container being written inside the project folder.
		Ignore []string

		// Debounce is the quiet period after the last event. Zero or
		// negative values use DefaultDebounce.
		Debounce time.Duration

		// OnChange is called once per settled batch of changes. Calls never
		// overlap; a batch that arrives while a call is running is retried
		// after it returns.
		OnChange OnChangeFunc

		// Logger receives watcher diagnostics. Nil discards them.
		Logger *slog.Logger
	}

	// Watcher delivers debounced change notifications for one project
	// folder. Run must be called exactly once.
	Watcher struct {
		fsw        *fsnotify.Watcher
		onChange   OnChangeFunc
		patterns   []string
		ignores    []string
		debounce   time.Duration
		projectDir string
		logger     *slog.Logger
		started    atomic.Bool
	}
)

// ProjectPatterns returns a copy of the patterns that select export inputs.
func ProjectPatterns() []string { return slices.Clone(projectPatterns) }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

// New validates cfg, opens an fsnotify watcher and registers the project
// folder and every non-ignored directory below it.
func New(cfg Config) (*Watcher, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("watch: project directory is required")
	}
	projectDir, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve project directory: %w", err)
	}
	info, err := os.Stat(projectDir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", projectDir)
	}

	patterns := cfg.Patterns
	if patterns == nil {
		patterns = projectPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:        fsw,
		onChange:   cfg.OnChange,
		patterns:   slices.Clone(patterns),
		ignores:    slices.Concat(defaultIgnores, cfg.Ignore),
		debounce:   debounce,
		projectDir: projectDir,
		logger:     logger.With("component", "watch"),
	}
	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			w.logger.Warn("close after init failure", "error", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until ctx is canceled. It returns nil on
// cancellation and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		stopped bool
		busy    atomic.Bool
		wg      sync.WaitGroup
	)

	fire := func() {
		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("export still running, retrying after debounce")
			mu.Lock()
			if !stopped {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		if stopped || ctx.Err() != nil || len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		wg.Add(1)
		mu.Unlock()
		defer wg.Done()

		w.logger.Debug("project changed", "paths", changed)
		if w.onChange == nil {
			return
		}
		if err := w.onChange(ctx, changed); err != nil {
			w.logger.Warn("change callback failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		wg.Wait()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			rel := w.relative(evt.Name)
			if w.isIgnored(rel) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}
			if !w.matches(rel) {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isResourceExhausted(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// addDirectories registers the project folder and its non-ignored
// subdirectories. Unreadable directories are logged and skipped.
func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.projectDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "error", walkErr)
			return nil //nolint:nilerr // unreadable folders are not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.projectDir && w.isIgnoredDir(w.relative(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk project: %w", err)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup, such
// as a CustomTextures folder added to a project that had none.
func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.isIgnoredDir(rel) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "error", err)
	}
}

func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.projectDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

// matches reports whether rel selects a watched input. An empty pattern list
// matches everything that is not ignored.
func (w *Watcher) matches(rel string) bool {
	return len(w.patterns) == 0 || matchAny(w.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
