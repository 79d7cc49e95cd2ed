package media

import (
	"log"
	"os"
	"strings"
	"sync"
	"unicode"
)

// ---------------------------------------------------------------------------
// Caption planning and font resolution
//
// The script is split into sentence-like segments, each assigned an equal
// slice of the timeline. Burned text needs a font whose glyph coverage
// matches the script family (Devanagari, Tamil, general Unicode), so the
// resolver probes a small candidate list per family and caches the result
// for the life of the process.
// ---------------------------------------------------------------------------

// Renderer-side limit on a single burned caption line. Stored data is never
// truncated.
const maxCaptionRunes = 140

// CaptionWindow is one visible caption interval on the timeline.
// Windows are contiguous and non-overlapping, covering [0, total].
type CaptionWindow struct {
	Text  string
	Start float64
	End   float64
}

// SplitSentences splits a script on sentence-ending punctuation (. ! ?)
// followed by whitespace. The terminator run stays attached to its sentence.
// Empty segments are discarded.
func SplitSentences(script string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(strings.TrimSpace(script))
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if !isSentenceEnd(runes[i]) {
			continue
		}
		// Consume the rest of the terminator run ("...", "?!").
		for i+1 < len(runes) && isSentenceEnd(runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue // mid-token punctuation, e.g. "3.5"
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// CaptionWindows assigns each sentence an equal slice of the total duration.
// A script with no sentences yields no windows — captions are skipped, not
// an error.
func CaptionWindows(script string, totalDuration float64) []CaptionWindow {
	sentences := SplitSentences(script)
	if len(sentences) == 0 {
		return nil
	}

	slice := totalDuration / float64(len(sentences))
	windows := make([]CaptionWindow, 0, len(sentences))
	for i, sentence := range sentences {
		start := float64(i) * slice
		end := float64(i+1) * slice
		if end > totalDuration {
			end = totalDuration
		}
		windows = append(windows, CaptionWindow{
			Text:  clipRunes(sentence, maxCaptionRunes),
			Start: start,
			End:   end,
		})
	}
	return windows
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Script families for font selection.
const (
	scriptDevanagari = "devanagari"
	scriptTamil      = "tamil"
	scriptUnicode    = "unicode"
)

// DetectScript classifies text by dominant Unicode block. ASCII-only text
// still maps to the universal family — the fallback list covers Latin.
func DetectScript(text string) string {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return scriptDevanagari
		}
	}
	for _, r := range text {
		if r >= 0x0B80 && r <= 0x0BFF {
			return scriptTamil
		}
	}
	return scriptUnicode
}

// FontResolver picks the first existing font file for a script family and
// memoizes the answer per family. Construct one per Renderer; re-probing the
// filesystem per caption line would be wasteful.
type FontResolver struct {
	mu         sync.Mutex
	cache      map[string]string // family -> resolved path ("" = none found)
	candidates map[string][]string
	exists     func(string) bool
}

func NewFontResolver() *FontResolver {
	return &FontResolver{
		cache: make(map[string]string),
		candidates: map[string][]string{
			scriptDevanagari: {
				"/System/Library/Fonts/Supplemental/ITFDevanagari.ttc",
				"/System/Library/Fonts/Supplemental/Devanagari Sangam MN.ttc",
				"/System/Library/Fonts/Supplemental/DevanagariMT.ttc",
				"/usr/share/fonts/truetype/noto/NotoSansDevanagari-Regular.ttf",
				"/usr/share/fonts/opentype/noto/NotoSansDevanagari-Regular.ttf",
			},
			scriptTamil: {
				"/System/Library/Fonts/Supplemental/Tamil MN.ttc",
				"/System/Library/Fonts/Supplemental/Tamil Sangam MN.ttc",
				"/usr/share/fonts/truetype/noto/NotoSansTamil-Regular.ttf",
				"/usr/share/fonts/opentype/noto/NotoSansTamil-Regular.ttf",
			},
			scriptUnicode: {
				"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
				"/Library/Fonts/Arial Unicode.ttf",
				"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
				"/usr/share/fonts/opentype/noto/NotoSans-Regular.ttf",
			},
		},
		exists: fileExists,
	}
}

// Resolve returns the font file path for the text's script family, or ""
// when no candidate exists on the host. A missing font never fails a render;
// the caller burns text without an explicit font.
func (r *FontResolver) Resolve(text string) string {
	family := DetectScript(text)

	r.mu.Lock()
	defer r.mu.Unlock()

	if path, ok := r.cache[family]; ok {
		return path
	}

	// Family-specific candidates first, then the universal fallback list.
	candidates := append([]string{}, r.candidates[family]...)
	if family != scriptUnicode {
		candidates = append(candidates, r.candidates[scriptUnicode]...)
	}

	for _, candidate := range candidates {
		if r.exists(candidate) {
			r.cache[family] = candidate
			return candidate
		}
	}

	log.Printf("[Captions] Warning: no font found for script family %q, burning text without explicit font", family)
	r.cache[family] = ""
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
