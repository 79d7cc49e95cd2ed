package media

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Filter graph builder
//
// ffmpeg filter chains are assembled as typed steps and serialized to the
// tool's textual syntax at the last moment, keeping ordering and escaping
// testable without invoking the tool.
// ---------------------------------------------------------------------------

type filterStep struct {
	name string
	args []string // serialized as name=arg1:arg2:...
}

// Chain is an ordered sequence of filter steps applied to one stream,
// serialized with "," separators.
type Chain struct {
	steps []filterStep
}

func (c *Chain) add(name string, args ...string) *Chain {
	c.steps = append(c.steps, filterStep{name: name, args: args})
	return c
}

func (c *Chain) String() string {
	parts := make([]string, 0, len(c.steps))
	for _, s := range c.steps {
		if len(s.args) == 0 {
			parts = append(parts, s.name)
			continue
		}
		parts = append(parts, s.name+"="+strings.Join(s.args, ":"))
	}
	return strings.Join(parts, ",")
}

// Video steps

// ScaleFit scales to fit inside the target box, preserving aspect ratio.
func (c *Chain) ScaleFit(width, height int) *Chain {
	return c.add("scale", fmt.Sprintf("%d", width), fmt.Sprintf("%d", height), "force_original_aspect_ratio=decrease")
}

// PadCenter pads the scaled frame out to exactly the target box, centered.
func (c *Chain) PadCenter(width, height int) *Chain {
	return c.add("pad", fmt.Sprintf("%d", width), fmt.Sprintf("%d", height), "(ow-iw)/2", "(oh-ih)/2")
}

// Format normalizes the pixel format for the encoder.
func (c *Chain) Format(pixFmt string) *Chain {
	return c.add("format", pixFmt)
}

// DrawText burns a text overlay into the frame. Field order matches the
// serialized argument order.
type DrawText struct {
	Text      string
	FontFile  string // optional resolved font path
	FontColor string // e.g. "white", "white@0.65"
	FontSize  int
	X         string // position expressions, e.g. "(w-text_w)/2"
	Y         string

	// Background box (disabled when BoxColor is empty)
	BoxColor   string
	BoxBorderW int

	// Drop shadow (disabled when ShadowColor is empty)
	ShadowColor string

	// Visibility window in seconds; the overlay spans the whole clip when
	// End <= Start.
	Start float64
	End   float64
}

func (c *Chain) DrawText(d DrawText) *Chain {
	args := []string{fmt.Sprintf("text='%s'", EscapeDrawText(d.Text))}
	if d.FontFile != "" {
		args = append(args, fmt.Sprintf("fontfile='%s'", EscapeDrawText(d.FontFile)))
	}
	args = append(args,
		"fontcolor="+d.FontColor,
		fmt.Sprintf("fontsize=%d", d.FontSize),
		"x="+d.X,
		"y="+d.Y,
	)
	if d.BoxColor != "" {
		args = append(args,
			"box=1",
			"boxcolor="+d.BoxColor,
			fmt.Sprintf("boxborderw=%d", d.BoxBorderW),
		)
	}
	if d.ShadowColor != "" {
		args = append(args, "shadowcolor="+d.ShadowColor, "shadowx=1", "shadowy=1")
	}
	if d.End > d.Start {
		args = append(args, fmt.Sprintf("enable='between(t,%.2f,%.2f)'", d.Start, d.End))
	}
	return c.add("drawtext", args...)
}

// Audio steps

func (c *Chain) ATrim(from, to float64) *Chain {
	return c.add("atrim", fmt.Sprintf("%.0f", from), fmt.Sprintf("%.2f", to))
}

// ASetPTS rebases timestamps after a trim so the stream starts at zero.
func (c *Chain) ASetPTS() *Chain {
	return c.add("asetpts", "N/SR/TB")
}

func (c *Chain) Volume(gain float64) *Chain {
	return c.add("volume", fmt.Sprintf("%.3f", gain))
}

// AMix mixes two labeled inputs; duration=first keeps the narration stream
// in charge of the output length.
func (c *Chain) AMix(inputs int) *Chain {
	return c.add("amix", fmt.Sprintf("inputs=%d", inputs), "duration=first", "dropout_transition=0")
}

// Graph is a filter_complex: labeled chains joined with ";".
type Graph struct {
	parts []string
}

// Chain appends one labeled chain, e.g. Chain([]string{"[1:a]"}, c, "[aout]").
func (g *Graph) Chain(inputs []string, c *Chain, outputs ...string) *Graph {
	g.parts = append(g.parts, strings.Join(inputs, "")+c.String()+strings.Join(outputs, ""))
	return g
}

func (g *Graph) String() string {
	return strings.Join(g.parts, ";")
}

// EscapeDrawText escapes text for ffmpeg's drawtext filter. Backslashes go
// first so later escapes aren't double-escaped; newlines collapse to spaces
// because drawtext renders a single line per filter.
func EscapeDrawText(text string) string {
	value := strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, "'", `\'`)
	value = strings.ReplaceAll(value, "%", `\%`)
	value = strings.ReplaceAll(value, ",", `\,`)
	return value
}
