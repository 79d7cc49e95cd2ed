package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected []string
	}{
		{
			"two sentences",
			"Hello there. This is a test.",
			[]string{"Hello there.", "This is a test."},
		},
		{
			"mixed terminators",
			"Wait! Really? Yes.",
			[]string{"Wait!", "Really?", "Yes."},
		},
		{
			"terminator run stays attached",
			"What?! Fine...",
			[]string{"What?!", "Fine..."},
		},
		{
			"no terminator yields one segment",
			"just a fragment",
			[]string{"just a fragment"},
		},
		{
			"decimal point is not a boundary",
			"Version 3.5 shipped today. Enjoy.",
			[]string{"Version 3.5 shipped today.", "Enjoy."},
		},
		{
			"empty script",
			"   ",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitSentences(tt.script))
		})
	}
}

func TestCaptionWindowsCoverTimeline(t *testing.T) {
	script := "One. Two! Three? Four."
	total := 10.0

	windows := CaptionWindows(script, total)
	require.Len(t, windows, 4)

	assert.Equal(t, 0.0, windows[0].Start)
	assert.InDelta(t, total, windows[len(windows)-1].End, 1e-9)

	// Contiguous and non-overlapping.
	for i := 1; i < len(windows); i++ {
		assert.InDelta(t, windows[i-1].End, windows[i].Start, 1e-9)
	}
}

func TestCaptionWindowsScenario(t *testing.T) {
	// Narration probed at 4.2s with two sentences: two 2.1s windows.
	windows := CaptionWindows("Hello there. This is a test.", 4.2)
	require.Len(t, windows, 2)

	assert.InDelta(t, 0.0, windows[0].Start, 1e-9)
	assert.InDelta(t, 2.1, windows[0].End, 1e-9)
	assert.InDelta(t, 2.1, windows[1].Start, 1e-9)
	assert.InDelta(t, 4.2, windows[1].End, 1e-9)
}

func TestCaptionWindowsEmptyScript(t *testing.T) {
	assert.Nil(t, CaptionWindows("", 10))
	assert.Nil(t, CaptionWindows("   \n  ", 10))
}

func TestCaptionWindowsClipsTo140Runes(t *testing.T) {
	long := strings.Repeat("क", 200) + "."
	windows := CaptionWindows(long, 5)
	require.Len(t, windows, 1)
	assert.Equal(t, 140, len([]rune(windows[0].Text)))
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"plain ascii text", scriptUnicode},
		{"नमस्ते दुनिया", scriptDevanagari},
		{"mixed with हिंदी", scriptDevanagari},
		{"வணக்கம்", scriptTamil},
		{"café crème", scriptUnicode},
		{"", scriptUnicode},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectScript(tt.text), "text %q", tt.text)
	}
}

func TestFontResolverPicksFirstExisting(t *testing.T) {
	resolver := NewFontResolver()
	resolver.candidates = map[string][]string{
		scriptDevanagari: {"/fonts/missing-deva.ttf", "/fonts/deva.ttf"},
		scriptUnicode:    {"/fonts/universal.ttf"},
	}
	resolver.exists = func(path string) bool { return path == "/fonts/deva.ttf" }

	assert.Equal(t, "/fonts/deva.ttf", resolver.Resolve("नमस्ते"))
}

func TestFontResolverFallsBackToUnicodeList(t *testing.T) {
	resolver := NewFontResolver()
	resolver.candidates = map[string][]string{
		scriptTamil:   {"/fonts/tamil.ttf"},
		scriptUnicode: {"/fonts/universal.ttf"},
	}
	resolver.exists = func(path string) bool { return path == "/fonts/universal.ttf" }

	assert.Equal(t, "/fonts/universal.ttf", resolver.Resolve("வணக்கம்"))
}

func TestFontResolverCachesPerFamily(t *testing.T) {
	probes := 0
	resolver := NewFontResolver()
	resolver.candidates = map[string][]string{
		scriptUnicode: {"/fonts/universal.ttf"},
	}
	resolver.exists = func(path string) bool {
		probes++
		return true
	}

	first := resolver.Resolve("hello")
	second := resolver.Resolve("world")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, probes, "second resolve must come from the cache")
}

func TestFontResolverCachesMisses(t *testing.T) {
	probes := 0
	resolver := NewFontResolver()
	resolver.candidates = map[string][]string{
		scriptUnicode: {"/fonts/a.ttf", "/fonts/b.ttf"},
	}
	resolver.exists = func(path string) bool {
		probes++
		return false
	}

	assert.Equal(t, "", resolver.Resolve("hello"))
	assert.Equal(t, "", resolver.Resolve("again"))
	assert.Equal(t, 2, probes, "a miss is probed once per candidate, then cached")
}
