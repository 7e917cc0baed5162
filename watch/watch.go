package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/erraggy/apish/dslerrors"
)

// RebuildFunc runs one full build. ctx carries the per-rebuild timeout,
// if one is configured.
type RebuildFunc func(ctx context.Context) error

// Outcome describes one finished rebuild.
type Outcome struct {
	// Trigger is the file whose change caused the rebuild, or "initial".
	Trigger  string
	Err      error
	Started  time.Time
	Duration time.Duration
}

// TriggerInitial is the Outcome.Trigger of the build run before watching.
const TriggerInitial = "initial"

// Watcher re-runs a build whenever one of a fixed set of files changes.
//
// File system events are reduced to at most one pending notification: a
// burst of events while a rebuild runs yields exactly one more rebuild.
// Rebuilds run one at a time on the goroutine that called Run.
type Watcher struct {
	files   map[string]bool // absolute paths
	dirs    []string
	rebuild RebuildFunc
	cfg     *config

	fsw     *fsnotify.Watcher
	pending chan string

	running  atomic.Bool
	rebuilds atomic.Int64
	failures atomic.Int64

	closeOnce sync.Once
	closed    chan struct{}
}

// New watches the directories holding files and calls rebuild when any of
// the files is written, created, renamed or removed. Directories are
// watched rather than the files so editors that save by renaming a temp
// file are seen.
func New(files []string, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	if rebuild == nil {
		return nil, &dslerrors.ConfigError{Option: "rebuild", Message: "rebuild function must not be nil"}
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("watch: invalid options: %w", err)
	}

	w := &Watcher{
		files:   make(map[string]bool),
		rebuild: rebuild,
		cfg:     cfg,
		pending: make(chan string, 1),
		closed:  make(chan struct{}),
	}
	seenDirs := make(map[string]bool)
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: absolute path of %s: %w", f, err)
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !seenDirs[dir] {
			seenDirs[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, &dslerrors.ConfigError{Option: "files", Message: "no files to watch"}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: watch directory %s: %w", dir, err)
		}
	}
	w.fsw = fsw
	return w, nil
}

// Files returns the absolute paths being watched, sorted.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Notify queues a rebuild as if name had changed. It never blocks: when a
// rebuild is already queued the notification is dropped.
func (w *Watcher) Notify(name string) bool {
	select {
	case w.pending <- name:
		return true
	default:
		return false
	}
}

// Rebuilds returns how many rebuilds have finished, the initial one
// included.
func (w *Watcher) Rebuilds() int64 { return w.rebuilds.Load() }

// Failures returns how many finished rebuilds returned an error.
func (w *Watcher) Failures() int64 { return w.failures.Load() }

// Run builds once (unless disabled with WithInitialBuild) and then
// rebuilds on every queued notification until ctx is done or Close is
// called. A failing rebuild is logged and the loop keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("watch: Run called twice")
	}

	events := make(chan struct{})
	go func() {
		defer close(events)
		w.forward(ctx)
	}()

	w.cfg.log.Info("watching for changes", "files", len(w.files), "dirs", len(w.dirs))
	if w.cfg.initial {
		w.runOnce(ctx, TriggerInitial)
	}

	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			<-events
			return nil
		case <-w.closed:
			<-events
			return nil
		case name := <-w.pending:
			if !w.settle(ctx) {
				_ = w.Close()
				<-events
				return nil
			}
			w.runOnce(ctx, name)
		}
	}
}

// settle waits for the debounce period to pass without new notifications.
// It returns false when the watcher is shutting down.
func (w *Watcher) settle(ctx context.Context) bool {
	if w.cfg.debounce <= 0 {
		return true
	}
	timer := time.NewTimer(w.cfg.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-w.closed:
			return false
		case <-w.pending:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.debounce)
		case <-timer.C:
			return true
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, trigger string) {
	rctx := ctx
	if w.cfg.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, w.cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	err := w.rebuild(rctx)
	if err == nil && rctx.Err() != nil {
		err = rctx.Err()
	}
	out := Outcome{Trigger: trigger, Err: err, Started: start, Duration: time.Since(start)}

	w.rebuilds.Add(1)
	if err != nil {
		w.failures.Add(1)
		w.cfg.log.Error("rebuild failed", "trigger", trigger, "error", err, "elapsed", out.Duration)
	} else {
		w.cfg.log.Info("rebuilt", "trigger", trigger, "elapsed", out.Duration)
	}
	for _, fn := range w.cfg.onRebuild {
		fn(out)
	}
}

// forward turns file system events into notifications until the watcher
// closes.
func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.closed:
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.cfg.log.Warn("file watcher error", "error", err)
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name, relevant := w.relevant(evt)
			if !relevant {
				continue
			}
			w.cfg.log.Debug("file changed", "file", name, "op", evt.Op.String())
			if !w.Notify(name) {
				w.cfg.log.Debug("rebuild already queued", "file", name)
			}
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}
	path, err := filepath.Abs(evt.Name)
	if err != nil || !w.files[path] {
		return "", false
	}
	return path, true
}

// Close stops watching. It is safe to call more than once and from any
// goroutine; a rebuild in progress is not interrupted.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		err = w.fsw.Close()
	})
	return err
}
