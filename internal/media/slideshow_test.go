package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTargetSize(t *testing.T) {
	tests := []struct {
		aspect     string
		resolution string
		width      int
		height     int
	}{
		{"9:16", "720p", 720, 1280},
		{"9:16", "1080p", 1080, 1920},
		{"16:9", "720p", 1280, 720},
		{"16:9", "1080p", 1920, 1080},
		{"1:1", "720p", 720, 720},
		{"1:1", "1080p", 1080, 1080},
		// Unknown combinations fall back to the portrait 1080p entry.
		{"4:5", "1080p", 1080, 1920},
		{"", "", 1080, 1920},
	}

	for _, tt := range tests {
		w, h := ResolveTargetSize(tt.aspect, tt.resolution)
		assert.Equal(t, tt.width, w, "%s/%s", tt.aspect, tt.resolution)
		assert.Equal(t, tt.height, h, "%s/%s", tt.aspect, tt.resolution)
	}
}

func TestBuildConcatListOmitsFinalDuration(t *testing.T) {
	list := buildConcatList([]string{"/img/a.png", "/img/b.png", "/img/c.png"}, 2.345)
	lines := strings.Split(strings.TrimSuffix(list, "\n"), "\n")

	// file+duration per image, plus the trailing file-only line the concat
	// demuxer needs; its duration entry is deliberately omitted.
	require.Len(t, lines, 7)
	assert.Equal(t, "file '/img/a.png'", lines[0])
	assert.Equal(t, "duration 2.345", lines[1])
	assert.Equal(t, "file '/img/c.png'", lines[6])
	assert.NotContains(t, lines[6], "duration")
}

func TestBuildConcatListQuotesPaths(t *testing.T) {
	list := buildConcatList([]string{"/img/it's here.png"}, 3.0)
	assert.Contains(t, list, `file '/img/it'\''s here.png'`)
}

func TestBuildSlideshowFilterScalePadFirst(t *testing.T) {
	fonts := resolverWithoutFonts()
	filter := buildSlideshowFilter(1080, 1920, "", nil, fonts)

	assert.True(t, strings.HasPrefix(filter,
		"scale=1080:1920:force_original_aspect_ratio=decrease,"+
			"pad=1080:1920:(ow-iw)/2:(oh-ih)/2,format=yuv420p"), filter)
}

func TestBuildSlideshowFilterWatermarkAlwaysPresent(t *testing.T) {
	fonts := resolverWithoutFonts()
	filter := buildSlideshowFilter(720, 1280, "", nil, fonts)

	assert.Contains(t, filter, "RangManch AI")
	assert.Contains(t, filter, "fontcolor=white@0.65")
}

func TestBuildSlideshowFilterTitleAndCaptions(t *testing.T) {
	fonts := resolverWithoutFonts()
	captions := []CaptionWindow{
		{Text: "First line.", Start: 0, End: 2.1},
		{Text: "Second line.", Start: 2.1, End: 4.2},
	}

	filter := buildSlideshowFilter(1080, 1920, "My Title", captions, fonts)

	assert.Contains(t, filter, "text='My Title'")
	assert.Contains(t, filter, "boxcolor=black@0.45")
	assert.Contains(t, filter, "enable='between(t,0.00,2.10)'")
	assert.Contains(t, filter, "enable='between(t,2.10,4.20)'")

	// Title before captions before watermark.
	titleIdx := strings.Index(filter, "My Title")
	captionIdx := strings.Index(filter, "First line")
	watermarkIdx := strings.Index(filter, "RangManch AI")
	assert.Less(t, titleIdx, captionIdx)
	assert.Less(t, captionIdx, watermarkIdx)
}

func TestBuildSlideshowFilterSkipsEmptyTitle(t *testing.T) {
	fonts := resolverWithoutFonts()
	filter := buildSlideshowFilter(1080, 1920, "   ", nil, fonts)
	assert.NotContains(t, filter, "boxcolor=black@0.45")
}

// resolverWithoutFonts avoids host filesystem probes in filter tests.
func resolverWithoutFonts() *FontResolver {
	resolver := NewFontResolver()
	resolver.exists = func(string) bool { return false }
	return resolver
}
