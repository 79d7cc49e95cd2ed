package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAssets resolves every URL to a path under root.
type stubAssets struct{ root string }

func (s stubAssets) LocalPath(url string) string {
	return filepath.Join(s.root, filepath.Base(url))
}

func newBrokenRenderer(t *testing.T) *Renderer {
	t.Helper()
	dir := t.TempDir()
	tool := NewFFmpeg(filepath.Join(dir, "work"))
	tool.ffmpegBin = "/definitely/not/ffmpeg"
	tool.ffprobeBin = "/definitely/not/ffprobe"

	return NewRenderer(tool, nil, stubAssets{root: dir},
		filepath.Join(dir, "renders"), filepath.Join(dir, "tts_cache"))
}

func TestOutputPathsNaming(t *testing.T) {
	r := newBrokenRenderer(t)

	video, thumb := r.OutputPaths("abc-123")
	assert.Equal(t, filepath.Join(r.rendersDir, "abc-123.mp4"), video)
	assert.Equal(t, filepath.Join(r.rendersDir, "abc-123.jpg"), thumb)
}

func TestRenderFailureWritesPlaceholders(t *testing.T) {
	r := newBrokenRenderer(t)

	// Empty script skips voiceover entirely, so the first tool call is the
	// slideshow stage, which fails because the binary does not exist.
	spec := RenderSpec{
		RenderID:    "fail-case",
		AspectRatio: "9:16",
		Resolution:  "1080p",
		MusicMode:   "none",
	}

	artifact, err := r.Render(context.Background(), spec)
	require.Error(t, err)
	assert.True(t, artifact.Degraded)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "slideshow", toolErr.Stage)
	assert.Equal(t, -1, toolErr.ExitCode)

	video, readErr := os.ReadFile(artifact.VideoPath)
	require.NoError(t, readErr)
	assert.Equal(t, placeholderVideoBytes, video)

	thumb, readErr := os.ReadFile(artifact.ThumbnailPath)
	require.NoError(t, readErr)
	assert.Equal(t, placeholderThumbBytes, thumb)
}

func TestRenderDropsMissingImages(t *testing.T) {
	r := newBrokenRenderer(t)

	paths := r.localImages([]string{"/static/uploads/missing-1.png", "/static/uploads/missing-2.png"})
	assert.Empty(t, paths)
}

func TestResolveMusicPathUnknownTrack(t *testing.T) {
	r := newBrokenRenderer(t)

	spec := RenderSpec{RenderID: "m1", MusicMode: "library", MusicTrackID: "no-such-track"}
	assert.Equal(t, "", r.resolveMusicPath(spec))
}

func TestResolveMusicPathMissingUpload(t *testing.T) {
	r := newBrokenRenderer(t)

	spec := RenderSpec{RenderID: "m2", MusicMode: "upload", MusicFileURL: "/static/uploads/gone.mp3"}
	assert.Equal(t, "", r.resolveMusicPath(spec))

	spec.MusicFileURL = ""
	assert.Equal(t, "", r.resolveMusicPath(spec))
}

func TestResolveMusicPathNoneMode(t *testing.T) {
	r := newBrokenRenderer(t)
	assert.Equal(t, "", r.resolveMusicPath(RenderSpec{MusicMode: "none"}))
}

func TestBuildVideoFailureWritesPlaceholders(t *testing.T) {
	r := newBrokenRenderer(t)

	artifact, err := r.BuildVideo(context.Background(), "card-fail", "Some script")
	require.Error(t, err)
	assert.True(t, artifact.Degraded)

	video, readErr := os.ReadFile(artifact.VideoPath)
	require.NoError(t, readErr)
	assert.Equal(t, placeholderVideoBytes, video)
}

func TestBuiltinMusicTracksReturnsCopy(t *testing.T) {
	tracks := BuiltinMusicTracks()
	require.Contains(t, tracks, "uplift-india")

	tracks["uplift-india"] = "tampered"
	assert.Equal(t, "/static/music/uplift-india.mp3", BuiltinMusicTracks()["uplift-india"])
}
