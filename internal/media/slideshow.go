package media

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ---------------------------------------------------------------------------
// Slideshow composer
//
// Builds the silent video track: an ordered image sequence (or a solid card
// when there are no images), scaled and padded to the exact target size,
// with title, timed captions, and the brand watermark burned into a single
// filter chain.
// ---------------------------------------------------------------------------

const (
	// Background color for padless cards and the no-image fallback clip.
	cardBackgroundColor = "0x111827"

	slideshowFPS = 30

	watermarkText = "RangManch AI"
)

// ResolveTargetSize maps (aspectRatio, resolution) to output pixel
// dimensions. Unknown combinations deliberately fall back to the 9:16/1080p
// entry rather than failing the render.
func ResolveTargetSize(aspectRatio, resolution string) (int, int) {
	switch aspectRatio + "/" + resolution {
	case "9:16/720p":
		return 720, 1280
	case "9:16/1080p":
		return 1080, 1920
	case "16:9/720p":
		return 1280, 720
	case "16:9/1080p":
		return 1920, 1080
	case "1:1/720p":
		return 720, 720
	case "1:1/1080p":
		return 1080, 1080
	default:
		return 1080, 1920
	}
}

// buildConcatList renders the concat demuxer descriptor for the image
// sequence. The last image is listed again without a duration entry — the
// demuxer ignores the final duration, and the clip is hard-truncated to the
// total duration with -t instead, because per-image float durations drift
// when summed.
func buildConcatList(imagePaths []string, perImageDuration float64) string {
	var lines []string
	for _, path := range imagePaths {
		lines = append(lines, fmt.Sprintf("file %s", quoteConcatPath(path)))
		lines = append(lines, fmt.Sprintf("duration %.3f", perImageDuration))
	}
	lines = append(lines, fmt.Sprintf("file %s", quoteConcatPath(imagePaths[len(imagePaths)-1])))
	return strings.Join(lines, "\n") + "\n"
}

// quoteConcatPath single-quotes a path for the concat demuxer, escaping
// embedded quotes shell-style.
func quoteConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// buildSlideshowFilter assembles the full video filter chain: scale → pad →
// pixel format, then title, captions, and watermark overlays in that order.
// Caption overlays never visually collide because their windows are
// non-overlapping by construction.
func buildSlideshowFilter(width, height int, title string, captions []CaptionWindow, fonts *FontResolver) string {
	chain := (&Chain{}).ScaleFit(width, height).PadCenter(width, height).Format("yuv420p")

	if strings.TrimSpace(title) != "" {
		chain.DrawText(DrawText{
			Text:       title,
			FontFile:   fonts.Resolve(title),
			FontColor:  "white",
			FontSize:   34,
			X:          "40",
			Y:          "h-th-40",
			BoxColor:   "black@0.45",
			BoxBorderW: 12,
		})
	}

	for _, window := range captions {
		chain.DrawText(DrawText{
			Text:        window.Text,
			FontFile:    fonts.Resolve(window.Text),
			FontColor:   "white",
			FontSize:    30,
			X:           "(w-text_w)/2",
			Y:           "h-th-90",
			BoxColor:    "black@0.55",
			BoxBorderW:  10,
			ShadowColor: "black@0.7",
			Start:       window.Start,
			End:         window.End,
		})
	}

	chain.DrawText(DrawText{
		Text:      watermarkText,
		FontColor: "white@0.65",
		FontSize:  18,
		X:         "w-tw-30",
		Y:         "24",
	})

	return chain.String()
}

// composeSlideshow writes the silent video to slideshowPath.
func (r *Renderer) composeSlideshow(
	ctx context.Context,
	slideshowPath string,
	imagePaths []string,
	plan TimingPlan,
	title string,
	captions []CaptionWindow,
	width, height int,
) error {
	videoFilter := buildSlideshowFilter(width, height, title, captions, r.fonts)

	if len(imagePaths) == 0 {
		// Solid-background clip spanning the whole timeline.
		return r.tool.Run(ctx, "slideshow",
			"-y",
			"-f", "lavfi",
			"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=%.2f", cardBackgroundColor, width, height, plan.TotalSeconds),
			"-vf", videoFilter,
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			slideshowPath,
		)
	}

	concatPath := strings.TrimSuffix(slideshowPath, ".mp4") + ".txt"
	if err := os.WriteFile(concatPath, []byte(buildConcatList(imagePaths, plan.PerImageSeconds)), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(concatPath)

	return r.tool.Run(ctx, "slideshow",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", concatPath,
		"-vf", videoFilter,
		"-r", fmt.Sprintf("%d", slideshowFPS),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-t", fmt.Sprintf("%.2f", plan.TotalSeconds),
		slideshowPath,
	)
}
