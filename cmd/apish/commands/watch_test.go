package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/logger"
)

func TestSetupWatchFlags(t *testing.T) {
	fs, flags := SetupWatchFlags()
	require.NoError(t, fs.Parse([]string{"-debounce", "250ms", "-openapi", "o.json", "api.apish"}))

	cfg := config.Default()
	cfg.Watch.Timeout = time.Minute
	flags.applyWatch(cfg)

	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, time.Minute, cfg.Watch.Timeout, "unset flag keeps the project value")
	assert.Equal(t, "o.json", flags.OpenAPIOutput)
}

func petstoreProject(t *testing.T) *config.Project {
	t.Helper()
	cfg := config.Default()
	for dst, src := range map[*string]string{&cfg.API: petstoreAPI, &cfg.Models: petstoreModels, &cfg.Examples: petstoreExamples} {
		abs, err := filepath.Abs(src)
		require.NoError(t, err)
		*dst = abs
	}
	return cfg
}

func TestWatchOutputsRebuild(t *testing.T) {
	dir := t.TempDir()
	o := &watchOutputs{
		cfg:     petstoreProject(t),
		log:     logger.NopLogger{},
		format:  FormatYAML,
		openapi: filepath.Join(dir, "openapi.yaml"),
		gotypes: filepath.Join(dir, "models.go"),
	}

	require.NoError(t, o.rebuild(context.Background()))

	doc, err := os.ReadFile(o.openapi)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "openapi: 3.0.3"))

	src, err := os.ReadFile(o.gotypes)
	require.NoError(t, err)
	assert.Contains(t, string(src), "type Pet struct")
}

func TestWatchOutputsRebuild_Errors(t *testing.T) {
	cfg := petstoreProject(t)
	cfg.API = filepath.Join(t.TempDir(), "missing.apish")
	o := &watchOutputs{cfg: cfg, log: logger.NopLogger{}}
	assert.Error(t, o.rebuild(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o = &watchOutputs{cfg: petstoreProject(t), log: logger.NopLogger{}}
	assert.ErrorIs(t, o.rebuild(ctx), context.Canceled)
}

func TestNewWatcher(t *testing.T) {
	cfg := petstoreProject(t)
	w, err := newWatcher(cfg, logger.NopLogger{}, func(context.Context) error { return nil })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	assert.Len(t, w.Files(), 3)

	cfg.Watch.Debounce = -time.Second
	_, err = newWatcher(cfg, logger.NopLogger{}, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestHandleWatch_Errors(t *testing.T) {
	clearEnv(t)
	captureOutput(t)

	assert.ErrorIs(t, HandleWatch(nil), ErrNoAPI)
	assert.Error(t, HandleWatch([]string{"-format", "text", petstoreAPI}))
	assert.Error(t, HandleWatch([]string{"-openapi", petstoreAPI, petstoreAPI}))
}

func TestServe_NoWatch(t *testing.T) {
	cfg := petstoreProject(t)
	cfg.Serve.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := serve(ctx, cfg, logger.NopLogger{}, false)
	assert.NoError(t, err)
}

func TestServe_Watching(t *testing.T) {
	cfg := petstoreProject(t)
	cfg.Serve.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err := serve(ctx, cfg, logger.NopLogger{}, true)
	assert.NoError(t, err)
}

func TestServe_ListenError(t *testing.T) {
	cfg := petstoreProject(t)
	cfg.Serve.Addr = "256.0.0.1:bad"

	err := serve(context.Background(), cfg, logger.NopLogger{}, true)
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}

func TestNewPreview(t *testing.T) {
	cfg := petstoreProject(t)
	srv := newPreview(cfg, logger.NopLogger{})
	result, err := Build(cfg, logger.NopLogger{})
	require.NoError(t, err)
	require.NoError(t, srv.Publish(result))
	assert.True(t, srv.Status().Ready)
	assert.Equal(t, 2, srv.Status().Endpoints)
}
