package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewCreatesSubdirectories(t *testing.T) {
	store := newTestStore(t)

	for _, sub := range []string{UploadsDir, RendersDir, MusicDir, TTSCacheDir} {
		info, err := os.Stat(store.Dir(sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}
}

func TestLocalPathRoundTrip(t *testing.T) {
	store := newTestStore(t)

	url := "/static/music/uplift-india.mp3"
	path := store.LocalPath(url)
	assert.Equal(t, filepath.Join(store.DataDir(), "music", "uplift-india.mp3"), path)
	assert.Equal(t, url, store.PublicURL(path))
}

func TestLocalPathRejectsNonStatic(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, "", store.LocalPath("https://cdn.example.com/a.png"))
	assert.Equal(t, "", store.LocalPath("/etc/passwd"))
	assert.Equal(t, "", store.LocalPath(""))
}

func TestLocalPathRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, "", store.LocalPath("/static/../etc/passwd"))
	assert.Equal(t, "", store.LocalPath("/static/uploads/../../secret"))
}

func TestPublicURLOutsideDataDir(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, "", store.PublicURL("/somewhere/else/file.mp4"))
}

func TestSaveUpload(t *testing.T) {
	store := newTestStore(t)

	src := filepath.Join(t.TempDir(), "photo.PNG")
	require.NoError(t, os.WriteFile(src, []byte("image-bytes"), 0644))

	file, err := os.Open(src)
	require.NoError(t, err)
	defer file.Close()

	url, err := store.SaveUpload(file, "photo.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/static/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"), "extension is lowercased: %s", url)

	data, err := os.ReadFile(store.LocalPath(url))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}
