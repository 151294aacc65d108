// Package watch re-lints source snippets when they change on disk. The
// library starts no server and persists nothing; results go to the
// caller's callback.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"trespass/config"
	"trespass/internal/observability"
	"trespass/internal/util"
	"trespass/lint"
)

// Watcher debounces filesystem events and re-runs the lint engine over the
// configured include paths. Re-lint frequency is capped by a token-bucket
// limiter so editor save storms cannot pile runs up.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	engine       *lint.Engine
	cfg          *config.Config
	onResult     func(*lint.Result)
	limiter      *util.Limiter
	debounce     time.Duration
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(engine *lint.Engine, cfg *config.Config, onResult func(*lint.Result)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:    fsw,
		engine:       engine,
		cfg:          cfg,
		onResult:     onResult,
		limiter:      util.NewLimiter(cfg.Watch.RelintsPerSec, 1),
		debounce:     cfg.Watch.Debounce,
		excludeDirs:  cfg.ExcludeDirGlobs(),
		excludeFiles: cfg.ExcludeFileGlobs(),
		pending:      make(map[string]time.Time),
	}, nil
}

// Start registers the config's include paths and begins delivering re-lint
// results. It returns immediately; the event loop stops when ctx is done
// or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, path := range w.cfg.IncludePaths {
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run(ctx)
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if w.shouldExcludeFile(event.Name) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Remove == fsnotify.Remove {
				w.scheduleRelint(ctx, event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleRelint(ctx context.Context, path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.relint(ctx)
	})
}

func (w *Watcher) relint(ctx context.Context) {
	w.pendingMu.Lock()
	changed := len(w.pending)
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if changed == 0 {
		return
	}
	if err := w.limiter.Wait(ctx, 1); err != nil {
		return
	}

	slog.Info("detected changes", "count", changed)
	observability.RelintsTotal.Inc()

	// A changed file can move members between classes, so the whole
	// hierarchy is rebuilt rather than patched.
	result, err := w.engine.RunPaths(ctx, w.cfg)
	if err != nil {
		slog.Error("re-lint failed", "error", err)
		return
	}
	if w.onResult != nil {
		w.onResult(result)
	}
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldExcludeFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
