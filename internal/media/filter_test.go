package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeDrawText(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"plain", "plain"},
		{"a:b", `a\:b`},
		{"it's", `it\'s`},
		{"100%", `100\%`},
		{"one, two", `one\, two`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", "line break"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EscapeDrawText(tt.in), "input %q", tt.in)
	}
}

func TestChainScalePadFormat(t *testing.T) {
	chain := (&Chain{}).ScaleFit(1080, 1920).PadCenter(1080, 1920).Format("yuv420p")

	assert.Equal(t,
		"scale=1080:1920:force_original_aspect_ratio=decrease,"+
			"pad=1080:1920:(ow-iw)/2:(oh-ih)/2,format=yuv420p",
		chain.String())
}

func TestChainDrawTextFull(t *testing.T) {
	chain := (&Chain{}).DrawText(DrawText{
		Text:        "Hello: world",
		FontFile:    "/fonts/noto.ttf",
		FontColor:   "white",
		FontSize:    30,
		X:           "(w-text_w)/2",
		Y:           "h-th-90",
		BoxColor:    "black@0.55",
		BoxBorderW:  10,
		ShadowColor: "black@0.7",
		Start:       0,
		End:         2.1,
	})

	s := chain.String()
	assert.True(t, strings.HasPrefix(s, `drawtext=text='Hello\: world'`), s)
	assert.Contains(t, s, "fontfile='/fonts/noto.ttf'")
	assert.Contains(t, s, "fontsize=30")
	assert.Contains(t, s, "box=1:boxcolor=black@0.55:boxborderw=10")
	assert.Contains(t, s, "shadowcolor=black@0.7:shadowx=1:shadowy=1")
	assert.Contains(t, s, "enable='between(t,0.00,2.10)'")
}

func TestChainDrawTextMinimal(t *testing.T) {
	chain := (&Chain{}).DrawText(DrawText{
		Text:      "RangManch AI",
		FontColor: "white@0.65",
		FontSize:  18,
		X:         "w-tw-30",
		Y:         "24",
	})

	s := chain.String()
	assert.NotContains(t, s, "fontfile")
	assert.NotContains(t, s, "box=1")
	assert.NotContains(t, s, "shadowcolor")
	assert.NotContains(t, s, "enable=")
}

func TestGraphJoinsLabeledChains(t *testing.T) {
	graph := &Graph{}
	graph.Chain([]string{"[2:a]"}, (&Chain{}).ATrim(0, 12).ASetPTS().Volume(0.42), "[bg]")
	graph.Chain([]string{"[1:a]"}, (&Chain{}).ATrim(0, 12).ASetPTS(), "[voice]")
	graph.Chain([]string{"[voice]", "[bg]"}, (&Chain{}).AMix(2), "[aout]")

	assert.Equal(t,
		"[2:a]atrim=0:12.00,asetpts=N/SR/TB,volume=0.420[bg];"+
			"[1:a]atrim=0:12.00,asetpts=N/SR/TB[voice];"+
			"[voice][bg]amix=inputs=2:duration=first:dropout_transition=0[aout]",
		graph.String())
}
