package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// FFmpeg — external media tool invocation
//
// Every pipeline stage shells out to ffmpeg/ffprobe. A non-zero exit at any
// stage is a ToolError carrying the stage name, the exit code, and a
// truncated stderr excerpt, so callers can tell "tool missing" apart from
// "tool rejected arguments" without parsing log output.
// ---------------------------------------------------------------------------

const (
	// Stderr is capped before it travels up into job error messages.
	maxStderrExcerpt = 800

	defaultFFmpegBin  = "ffmpeg"
	defaultFFprobeBin = "ffprobe"
)

// ToolError is a failed external media tool invocation.
// ExitCode is -1 when the process could not be started at all
// (binary missing, permission denied).
type ToolError struct {
	Stage    string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg failed at stage %s (exit %d)", e.Stage, e.ExitCode)
	}
	return fmt.Sprintf("ffmpeg failed at stage %s (exit %d): %s", e.Stage, e.ExitCode, e.Stderr)
}

// FFmpeg wraps the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	ffmpegBin  string
	ffprobeBin string
	workDir    string
}

func NewFFmpeg(workDir string) *FFmpeg {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		panic(fmt.Sprintf("failed to create work dir: %v", err))
	}

	return &FFmpeg{
		ffmpegBin:  defaultFFmpegBin,
		ffprobeBin: defaultFFprobeBin,
		workDir:    workDir,
	}
}

// Run invokes ffmpeg with the given arguments. stderr is captured and
// truncated into the returned ToolError; stdout is discarded (ffmpeg writes
// progress to stderr).
func (f *FFmpeg) Run(ctx context.Context, stage string, args ...string) error {
	cmd := exec.CommandContext(ctx, f.ffmpegBin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		excerpt := truncateStderr(stderr.String())
		if excerpt == "" {
			excerpt = err.Error()
		}
		return &ToolError{Stage: stage, ExitCode: exitCode, Stderr: excerpt}
	}

	return nil
}

// ProbeDuration returns the container-level duration of a media file in
// seconds. Unknown or unparsable duration is 0.0, not an error — a render
// composing zero-length media must still make progress on image-based
// timing.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) float64 {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, f.ffprobeBin, args...)
	output, err := cmd.Output()
	if err != nil {
		log.Printf("[FFmpeg] Warning: ffprobe failed for %s, treating duration as unknown: %v", filepath.Base(path), err)
		return 0.0
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		log.Printf("[FFmpeg] Warning: could not parse probed duration %q", strings.TrimSpace(string(output)))
		return 0.0
	}

	if value < 0 {
		return 0.0
	}
	return value
}

// Thumbnail extracts a single frame from the finished video.
func (f *FFmpeg) Thumbnail(ctx context.Context, videoPath, thumbPath string) error {
	return f.Run(ctx, "thumbnail", "-y", "-i", videoPath, "-frames:v", "1", thumbPath)
}

// TempPath returns a path inside the tool's scratch directory.
func (f *FFmpeg) TempPath(filename string) string {
	return filepath.Join(f.workDir, filename)
}

// Cleanup removes scratch files, ignoring missing ones.
func (f *FFmpeg) Cleanup(paths ...string) {
	for _, path := range paths {
		os.Remove(path)
	}
}

func truncateStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxStderrExcerpt {
		return s
	}
	return s[:maxStderrExcerpt]
}
