package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/apish/dslerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.apish")
	require.NoError(t, os.WriteFile(path, []byte("title: \"x\"\n"), OwnerReadWrite))

	t.Run("bytes", func(t *testing.T) {
		data, err := Source{Bytes: []byte("abc")}.Read(0)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))
	})

	t.Run("reader", func(t *testing.T) {
		data, err := Source{Reader: strings.NewReader("abc")}.Read(10)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))
	})

	t.Run("file", func(t *testing.T) {
		data, err := Source{Path: path}.Read(0)
		require.NoError(t, err)
		assert.Equal(t, "title: \"x\"\n", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Source{Path: filepath.Join(dir, "nope")}.Read(0)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := Source{}.Read(0)
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})

	t.Run("size limits", func(t *testing.T) {
		for name, src := range map[string]Source{
			"bytes":  {Bytes: []byte("abcdef")},
			"reader": {Reader: strings.NewReader("abcdef")},
			"file":   {Path: path},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := src.Read(3)
				require.Error(t, err)
				assert.ErrorIs(t, err, dslerrors.ErrResourceLimit)
			})
		}
	})
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "api.apish", Source{Path: "api.apish"}.Name("<bytes>"))
	assert.Equal(t, "<bytes>", Source{Bytes: []byte{}}.Name("<bytes>"))
	assert.False(t, Source{}.IsSet())
	assert.True(t, Source{Bytes: []byte{}}.IsSet())
}
