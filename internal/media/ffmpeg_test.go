package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Stage: "mux", ExitCode: 1, Stderr: "unknown encoder"}
	assert.Equal(t, "ffmpeg failed at stage mux (exit 1): unknown encoder", err.Error())

	bare := &ToolError{Stage: "slideshow", ExitCode: -1}
	assert.Equal(t, "ffmpeg failed at stage slideshow (exit -1)", bare.Error())
}

func TestTruncateStderr(t *testing.T) {
	assert.Equal(t, "short", truncateStderr("  short \n"))

	long := strings.Repeat("x", 2000)
	assert.Len(t, truncateStderr(long), maxStderrExcerpt)
}

func TestRunMissingBinary(t *testing.T) {
	tool := NewFFmpeg(t.TempDir())
	tool.ffmpegBin = "/definitely/not/ffmpeg"

	err := tool.Run(context.Background(), "slideshow", "-version")
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "slideshow", toolErr.Stage)
	assert.Equal(t, -1, toolErr.ExitCode)
	assert.NotEmpty(t, toolErr.Stderr)
}

func TestProbeDurationMissingBinaryIsZero(t *testing.T) {
	tool := NewFFmpeg(t.TempDir())
	tool.ffprobeBin = "/definitely/not/ffprobe"

	assert.Equal(t, 0.0, tool.ProbeDuration(context.Background(), "/tmp/whatever.mp3"))
}

func TestTempPathAndCleanup(t *testing.T) {
	dir := t.TempDir()
	tool := NewFFmpeg(dir)

	path := tool.TempPath("scratch.txt")
	assert.Equal(t, dir+"/scratch.txt", path)

	// Cleanup tolerates files that never existed.
	tool.Cleanup(path, "/no/such/file")
}
