package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apish/project"
)

const (
	petstoreAPI      = "../../testdata/petstore/api.apish"
	petstoreModels   = "../../testdata/petstore/models.apish"
	petstoreExamples = "../../testdata/petstore/examples.json"
)

const minimalAPI = `title: "Tiny"
version: "0.1.0"
apis:
  /things:
    get: "List things"
      tags: [things]
`

func TestDocInput_Check(t *testing.T) {
	tests := []struct {
		name     string
		in       docInput
		required bool
		wantErr  string
	}{
		{"none required", docInput{}, true, "got 0"},
		{"none optional", docInput{}, false, ""},
		{"one file", docInput{File: "a.apish"}, true, ""},
		{"two sources", docInput{File: "a.apish", Content: "x"}, false, "got 2"},
		{"three sources", docInput{File: "a", URL: "http://x", Content: "x"}, true, "got 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.check("api", tt.required)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDocInput_CheckInlineSize(t *testing.T) {
	orig := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = orig })

	err := docInput{Content: strings.Repeat("x", 17)}.check("models", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 16 bytes")

	assert.NoError(t, docInput{Content: strings.Repeat("x", 16)}.check("models", true))
}

func TestDocInput_CacheKey(t *testing.T) {
	t.Run("content is hashed", func(t *testing.T) {
		a := docInput{Content: "abc"}.cacheKey()
		b := docInput{Content: "abd"}.cacheKey()
		assert.True(t, strings.HasPrefix(a, "content:"))
		assert.NotEqual(t, a, b)
	})
	t.Run("file changes with mtime", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api.apish")
		require.NoError(t, os.WriteFile(path, []byte(minimalAPI), 0o600))
		before := docInput{File: path}.cacheKey()

		later := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, later, later))
		after := docInput{File: path}.cacheKey()

		assert.NotEqual(t, before, after)
	})
	t.Run("missing file is not cached", func(t *testing.T) {
		assert.Empty(t, docInput{File: "/nonexistent/api.apish"}.cacheKey())
	})
	t.Run("url", func(t *testing.T) {
		assert.Equal(t, "url:https://example.com/api.apish", docInput{URL: "https://example.com/api.apish"}.cacheKey())
	})
	t.Run("unset", func(t *testing.T) {
		assert.Equal(t, "none", docInput{}.cacheKey())
	})
}

func TestBuildInput_ValidateBeforeCache(t *testing.T) {
	buildCache.reset()
	in := buildInput{API: docInput{Content: minimalAPI}}
	_, err := in.build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, buildCache.size())

	// Same key, invalid format: must fail rather than hit the cache.
	in.ExamplesFormat = "toml"
	_, err = in.build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown examples_format")
}

func TestBuildInput_BuildFiles(t *testing.T) {
	buildCache.reset()
	in := buildInput{
		API:      docInput{File: petstoreAPI},
		Models:   docInput{File: petstoreModels},
		Examples: docInput{File: petstoreExamples},
	}
	result, err := in.build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Project)
	assert.Equal(t, "Pet Store", result.Project.Title)
	assert.Len(t, result.Project.Endpoints, 2)
	assert.Empty(t, result.Issues)
	assert.ElementsMatch(t, []string{"create_pet", "get_pet"}, result.Project.Examples.Keys())
}

func TestBuildInput_InlineExamples(t *testing.T) {
	buildCache.reset()
	in := buildInput{
		API:            docInput{Content: minimalAPI},
		Examples:       docInput{Content: "list_things:\n  - response: {id: 1}\n"},
		ExamplesFormat: "yaml",
	}
	result, err := in.build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"list_things"}, result.Project.Examples.Keys())
}

func TestBuildInput_SyntaxError(t *testing.T) {
	buildCache.reset()
	in := buildInput{API: docInput{Content: "apis:\n  /a:\n    get:\n      tags: [a, b"}}
	_, err := in.build(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, buildCache.size(), "failed builds must not be cached")
}

func TestBuildCache_HitOnSameContent(t *testing.T) {
	buildCache.reset()
	in := buildInput{API: docInput{Content: minimalAPI}}

	first, err := in.build(context.Background())
	require.NoError(t, err)
	second, err := in.build(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, buildCache.size())
}

func TestBuildCache_MissOnFileChange(t *testing.T) {
	buildCache.reset()
	path := filepath.Join(t.TempDir(), "api.apish")
	require.NoError(t, os.WriteFile(path, []byte(minimalAPI), 0o600))
	in := buildInput{API: docInput{File: path}}

	first, err := in.build(context.Background())
	require.NoError(t, err)

	changed := strings.Replace(minimalAPI, `"Tiny"`, `"Small"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o600))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := in.build(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, "Small", second.Project.Title)
}

func TestBuildCache_DisabledSkipsCache(t *testing.T) {
	buildCache.reset()
	orig := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = orig })

	_, err := buildInput{API: docInput{Content: minimalAPI}}.build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, buildCache.size())
}

func TestBuildCache_LRUEviction(t *testing.T) {
	c := &buildCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}
	a, b, d := &project.Result{}, &project.Result{}, &project.Result{}

	c.putWithTTL("a", a, time.Minute)
	time.Sleep(time.Millisecond)
	c.putWithTTL("b", b, time.Minute)
	time.Sleep(time.Millisecond)
	require.Same(t, a, c.get("a")) // a is now the most recently used
	time.Sleep(time.Millisecond)
	c.putWithTTL("d", d, time.Minute)

	assert.Equal(t, 2, c.size())
	assert.Same(t, a, c.get("a"))
	assert.Nil(t, c.get("b"))
	assert.Same(t, d, c.get("d"))
}

func TestBuildCache_Expiry(t *testing.T) {
	c := &buildCacheStore{entries: make(map[string]*cacheEntry), maxSize: 4}
	c.putWithTTL("old", &project.Result{}, time.Nanosecond)
	c.putWithTTL("new", &project.Result{}, time.Hour)
	time.Sleep(time.Millisecond)

	c.sweep()
	assert.Equal(t, 1, c.size())
	assert.Nil(t, c.get("old"))
	assert.NotNil(t, c.get("new"))
}

func TestBuildInput_TTL(t *testing.T) {
	assert.Equal(t, cfg.CacheURLTTL, buildInput{API: docInput{URL: "https://x"}}.ttl())
	assert.Equal(t, cfg.CacheFileTTL, buildInput{API: docInput{File: "a"}}.ttl())
	assert.Equal(t, cfg.CacheContentTTL, buildInput{API: docInput{Content: "a"}}.ttl())
}

func TestParseExamplesFormat(t *testing.T) {
	for _, s := range []string{"", "auto", "json", "JSON", "yaml", "yml"} {
		_, err := parseExamplesFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := parseExamplesFormat("xml")
	assert.Error(t, err)
}

func TestParseModels(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		m, err := parseModels(context.Background(), docInput{File: petstoreModels})
		require.NoError(t, err)
		assert.Equal(t, []string{"Owner", "Pet"}, m.EntityNames())
		assert.Equal(t, []string{"Species"}, m.EnumNames())
	})
	t.Run("content", func(t *testing.T) {
		m, err := parseModels(context.Background(), docInput{Content: "type Thing {\n  id: number \"Thing id\"\n}\n"})
		require.NoError(t, err)
		assert.Len(t, m.Entities, 1)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := parseModels(context.Background(), docInput{})
		assert.Error(t, err)
	})
}

func TestFetch_RejectsScheme(t *testing.T) {
	_, err := fetch(context.Background(), "file:///etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("new file", func(t *testing.T) {
		got, err := checkOutputPath(filepath.Join(dir, "sub", "..", "out.json"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "out.json"), got)
	})
	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "exists.json")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, err := checkOutputPath(path)
		assert.NoError(t, err)
	})
	t.Run("directory", func(t *testing.T) {
		_, err := checkOutputPath(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
	t.Run("symlink", func(t *testing.T) {
		target := filepath.Join(dir, "target.json")
		require.NoError(t, os.WriteFile(target, nil, 0o600))
		link := filepath.Join(dir, "link.json")
		require.NoError(t, os.Symlink(target, link))
		_, err := checkOutputPath(link)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}
