package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/apish"
	"github.com/erraggy/apish/examples"
	"github.com/erraggy/apish/models"
	"github.com/erraggy/apish/project"
)

// docInput is one DSL or examples document given to a tool. At most one of
// File, URL, or Content may be set.
type docInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to the document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch the document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content"`
}

func (d docInput) count() int {
	n := 0
	for _, s := range []string{d.File, d.URL, d.Content} {
		if s != "" {
			n++
		}
	}
	return n
}

// isSet reports whether any source was given.
func (d docInput) isSet() bool { return d.count() > 0 }

func (d docInput) check(name string, required bool) error {
	switch n := d.count(); {
	case n == 0 && required:
		return fmt.Errorf("%s: exactly one of file, url, or content must be provided (got 0)", name)
	case n > 1:
		return fmt.Errorf("%s: exactly one of file, url, or content must be provided (got %d)", name, n)
	}
	if d.Content != "" && int64(len(d.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("%s: inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APISH_MCP_MAX_INLINE_SIZE to increase",
			name, len(d.Content), cfg.MaxInlineSize)
	}
	return nil
}

// name is the source name used in diagnostics.
func (d docInput) name() string {
	switch {
	case d.File != "":
		return d.File
	case d.URL != "":
		return d.URL
	default:
		return ""
	}
}

// bytes returns the content of a URL or inline document. File inputs are
// read by the packages themselves and return nil.
func (d docInput) bytes(ctx context.Context) ([]byte, error) {
	switch {
	case d.Content != "":
		return []byte(d.Content), nil
	case d.URL != "":
		return fetch(ctx, d.URL)
	default:
		return nil, nil
	}
}

// fetch downloads a document, refusing private addresses unless
// APISH_MCP_ALLOW_PRIVATE_IPS is set.
func fetch(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("unsupported URL scheme: %s", url)
	}
	client := newFetchClient(cfg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", apish.UserAgent())
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxInlineSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if int64(len(data)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("fetch %s: document exceeds maximum %d bytes", url, cfg.MaxInlineSize)
	}
	return data, nil
}

// cacheKey identifies the current content of d. Files are keyed by path
// and modification time, inline content by hash, URLs by the URL itself.
// An empty key means the input cannot be cached.
func (d docInput) cacheKey() string {
	switch {
	case d.File != "":
		absPath, err := filepath.Abs(d.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case d.Content != "":
		h := sha256.Sum256([]byte(d.Content))
		return "content:" + hex.EncodeToString(h[:])
	case d.URL != "":
		return "url:" + d.URL
	default:
		return "none"
	}
}

// buildInput is the set of documents compiled together.
type buildInput struct {
	API            docInput
	Models         docInput
	Examples       docInput
	ExamplesFormat string
}

func (in buildInput) cacheKey() string {
	keys := []string{in.API.cacheKey(), in.Models.cacheKey(), in.Examples.cacheKey(), in.ExamplesFormat}
	for _, k := range keys[:3] {
		if k == "" {
			return ""
		}
	}
	return strings.Join(keys, "|")
}

func (in buildInput) ttl() time.Duration {
	switch {
	case in.API.URL != "" || in.Models.URL != "" || in.Examples.URL != "":
		return cfg.CacheURLTTL
	case in.API.File != "" || in.Models.File != "" || in.Examples.File != "":
		return cfg.CacheFileTTL
	default:
		return cfg.CacheContentTTL
	}
}

func parseExamplesFormat(s string) (examples.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return examples.FormatAuto, nil
	case "json":
		return examples.FormatJSON, nil
	case "yaml", "yml":
		return examples.FormatYAML, nil
	default:
		return examples.FormatAuto, fmt.Errorf("unknown examples_format %q (want json, yaml or auto)", s)
	}
}

func (in buildInput) validate() error {
	if err := in.API.check("api", true); err != nil {
		return err
	}
	if err := in.Models.check("models", false); err != nil {
		return err
	}
	if err := in.Examples.check("examples", false); err != nil {
		return err
	}
	_, err := parseExamplesFormat(in.ExamplesFormat)
	return err
}

// options translates validated inputs into project build options.
func (in buildInput) options(ctx context.Context) ([]project.Option, error) {
	format, _ := parseExamplesFormat(in.ExamplesFormat)

	var opts []project.Option
	if in.API.File != "" {
		opts = append(opts, project.WithAPIFile(in.API.File))
	} else {
		data, err := in.API.bytes(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, project.WithAPIBytes(data))
		if name := in.API.name(); name != "" {
			opts = append(opts, project.WithSourceName(name))
		}
	}

	switch {
	case in.Models.File != "":
		opts = append(opts, project.WithModelFile(in.Models.File))
	case in.Models.isSet():
		data, err := in.Models.bytes(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, project.WithModelBytes(data))
	}

	switch {
	case in.Examples.File != "":
		opts = append(opts, project.WithExamplesFile(in.Examples.File))
	case in.Examples.isSet():
		data, err := in.Examples.bytes(ctx)
		if err != nil {
			return nil, err
		}
		if format == examples.FormatAuto && in.Examples.URL != "" {
			format = examples.FormatFromPath(in.Examples.URL)
		}
		opts = append(opts, project.WithExamplesBytes(data, format))
	}
	return opts, nil
}

// build compiles the inputs, reusing a cached result for unchanged inputs.
func (in buildInput) build(ctx context.Context) (*project.Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var key string
	if cfg.CacheEnabled {
		key = in.cacheKey()
	}
	if key != "" {
		if cached := buildCache.get(key); cached != nil {
			return cached, nil
		}
	}

	opts, err := in.options(ctx)
	if err != nil {
		return nil, err
	}
	result, err := project.BuildWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		buildCache.putWithTTL(key, result, in.ttl())
	}
	return result, nil
}

// parseModels parses a model document on its own.
func parseModels(ctx context.Context, d docInput) (*models.ProjectModel, error) {
	if err := d.check("models", true); err != nil {
		return nil, err
	}
	if d.File != "" {
		return models.ParseWithOptions(models.WithFilePath(d.File))
	}
	data, err := d.bytes(ctx)
	if err != nil {
		return nil, err
	}
	opts := []models.Option{models.WithBytes(data)}
	if name := d.name(); name != "" {
		opts = append(opts, models.WithSourceName(name))
	}
	return models.ParseWithOptions(opts...)
}

// cacheEntry holds a cached build with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *project.Result
	insertAt  time.Time
	expiresAt time.Time
}

// buildCacheStore is a session-scoped cache of build results. Results are
// read-only, so a cached pointer may be shared between tool calls.
type buildCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var buildCache = &buildCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *buildCacheStore) get(key string) *project.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	e.insertAt = time.Now()
	return e.result
}

// putWithTTL stores a result, evicting the least recently used entry when
// the cache is full.
func (c *buildCacheStore) putWithTTL(key string, result *project.Result, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, insertAt: now, expiresAt: now.Add(ttl)}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}
	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey, oldestTime = k, e.insertAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = entry
}

func (c *buildCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper removes expired entries every interval until ctx is done.
// Only the first call starts a goroutine.
func (c *buildCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *buildCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *buildCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// checkOutputPath cleans path into an absolute path and refuses to write
// through a symlink.
func checkOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	info, err := os.Lstat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("invalid output path: %w", err)
	case info.Mode()&os.ModeSymlink != 0:
		return "", fmt.Errorf("output path %s is a symlink", abs)
	case info.IsDir():
		return "", fmt.Errorf("output path %s is a directory", abs)
	}
	return abs, nil
}
