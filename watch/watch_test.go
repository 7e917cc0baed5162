package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apish/dslerrors"
)

// recorder is a RebuildFunc that counts calls and notices overlap.
type recorder struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	overlap  atomic.Bool
	hold     chan struct{} // when non-nil each call blocks until it is closed or receives
	started  chan struct{}
	err      error
}

func newRecorder() *recorder {
	return &recorder{started: make(chan struct{}, 64)}
}

func (r *recorder) rebuild(ctx context.Context) error {
	if r.inFlight.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.inFlight.Add(-1)
	r.calls.Add(1)
	r.started <- struct{}{}
	if r.hold != nil {
		<-r.hold
	}
	return r.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errc:
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func waitStarted(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.started:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild did not start")
	}
}

func TestNewValidation(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")
	noop := func(context.Context) error { return nil }

	t.Run("nil rebuild", func(t *testing.T) {
		_, err := New([]string{api}, nil)
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})
	t.Run("no files", func(t *testing.T) {
		_, err := New([]string{"", "  "}, noop)
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})
	t.Run("negative debounce", func(t *testing.T) {
		_, err := New([]string{api}, noop, WithDebounce(-time.Second))
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})
	t.Run("negative timeout", func(t *testing.T) {
		_, err := New([]string{api}, noop, WithTimeout(-time.Second))
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})
	t.Run("missing directory", func(t *testing.T) {
		_, err := New([]string{filepath.Join(dir, "nope", "api.apish")}, noop)
		assert.Error(t, err)
	})
	t.Run("files are absolute", func(t *testing.T) {
		w, err := New([]string{api, api}, noop)
		require.NoError(t, err)
		defer w.Close()
		assert.Equal(t, []string{api}, w.Files())
	})
}

func TestInitialBuild(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")

	r := newRecorder()
	var outcomes []Outcome
	var mu sync.Mutex
	w, err := New([]string{api}, r.rebuild, WithOnRebuild(func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, o)
	}))
	require.NoError(t, err)
	startWatcher(t, w)

	waitStarted(t, r)
	require.Eventually(t, func() bool { return w.Rebuilds() == 1 }, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, outcomes, 1)
	assert.Equal(t, TriggerInitial, outcomes[0].Trigger)
	assert.NoError(t, outcomes[0].Err)
}

func TestRebuildOnChange(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, api, "")

	r := newRecorder()
	w, err := New([]string{api}, r.rebuild, WithInitialBuild(false))
	require.NoError(t, err)
	startWatcher(t, w)

	// unrelated files in the same directory are ignored
	writeFile(t, other, "hello")
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, r.calls.Load())

	writeFile(t, api, "title: \"Pets\"\n")
	waitStarted(t, r)
	require.Eventually(t, func() bool { return w.Rebuilds() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestSameBaseNameInDifferentDirectories(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api", "spec.apish")
	models := filepath.Join(dir, "models", "spec.apish")
	require.NoError(t, os.MkdirAll(filepath.Dir(api), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(models), 0o755))
	writeFile(t, api, "")
	writeFile(t, models, "")

	w, err := New([]string{api, models}, func(context.Context) error { return nil })
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, []string{api, models}, w.Files())

	for _, path := range []string{api, models} {
		got, ok := w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Write})
		assert.True(t, ok, path)
		assert.Equal(t, path, got)
	}
	_, ok := w.relevant(fsnotify.Event{Name: filepath.Join(dir, "spec.apish"), Op: fsnotify.Write})
	assert.False(t, ok, "same base name outside the watched set")
	_, ok = w.relevant(fsnotify.Event{Name: api, Op: fsnotify.Chmod})
	assert.False(t, ok, "chmod is not a content change")
}

func TestSameBaseNameRebuilds(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api", "spec.apish")
	models := filepath.Join(dir, "models", "spec.apish")
	require.NoError(t, os.MkdirAll(filepath.Dir(api), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(models), 0o755))
	writeFile(t, api, "")
	writeFile(t, models, "")

	r := newRecorder()
	w, err := New([]string{api, models}, r.rebuild, WithInitialBuild(false))
	require.NoError(t, err)
	startWatcher(t, w)

	writeFile(t, api, "title: \"Pets\"\n")
	waitStarted(t, r)
	require.Eventually(t, func() bool { return w.Rebuilds() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestRebuildsAreCoalescedAndSerial(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")

	r := newRecorder()
	r.hold = make(chan struct{})
	w, err := New([]string{api}, r.rebuild, WithInitialBuild(false))
	require.NoError(t, err)
	startWatcher(t, w)

	require.True(t, w.Notify(api))
	waitStarted(t, r)

	// the first rebuild is blocked; everything sent now collapses into one
	queued := 0
	for range 10 {
		if w.Notify(api) {
			queued++
		}
	}
	assert.Equal(t, 1, queued, "at most one notification is pending")

	r.hold <- struct{}{}
	waitStarted(t, r)
	r.hold <- struct{}{}

	require.Eventually(t, func() bool { return w.Rebuilds() == 2 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), r.calls.Load())
	assert.False(t, r.overlap.Load(), "rebuilds must not overlap")
}

func TestFailingRebuildKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")

	r := newRecorder()
	r.err = &dslerrors.SyntaxError{Line: 1, Column: 1, Rule: "api_file", Found: "?"}
	w, err := New([]string{api}, r.rebuild)
	require.NoError(t, err)
	startWatcher(t, w)

	waitStarted(t, r)
	require.Eventually(t, func() bool { return w.Failures() == 1 }, 5*time.Second, 10*time.Millisecond)

	w.Notify(api)
	waitStarted(t, r)
	require.Eventually(t, func() bool { return w.Failures() == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(2), w.Rebuilds())
}

func TestDebounce(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")

	r := newRecorder()
	w, err := New([]string{api}, r.rebuild, WithInitialBuild(false), WithDebounce(150*time.Millisecond))
	require.NoError(t, err)
	startWatcher(t, w)

	for range 5 {
		w.Notify(api)
		time.Sleep(20 * time.Millisecond)
	}
	waitStarted(t, r)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestTimeout(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")

	var got error
	done := make(chan struct{})
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}
	w, err := New([]string{api}, slow, WithTimeout(20*time.Millisecond), WithOnRebuild(func(o Outcome) {
		got = o.Err
		close(done)
	}))
	require.NoError(t, err)
	startWatcher(t, w)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild did not finish")
	}
	assert.ErrorIs(t, got, context.DeadlineExceeded)
	assert.Equal(t, int64(1), w.Failures())
}

func TestRunStops(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.apish")
	writeFile(t, api, "")

	w, err := New([]string{api}, func(context.Context) error { return nil }, WithInitialBuild(false))
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- w.Run(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "Close is idempotent")
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Error(t, w.Run(context.Background()), "Run only once")
}
