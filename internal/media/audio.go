package media

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Audio mixer
//
// Combines the optional narration track and the optional looped music track
// into the arguments the final mux consumes. The gain constants are product
// tuning values, kept named so they can be adjusted without reading filter
// strings.
// ---------------------------------------------------------------------------

const (
	// Music never plays at full amplitude, even at 100% user volume.
	musicBaseGain = 0.7

	// Extra attenuation applied to music while narration is present.
	duckFactor = 0.6
)

// AudioPlan describes the audio side of the final mux.
type AudioPlan struct {
	// Silent means neither narration nor music exists: the muxer attaches a
	// synthesized silent track so the container always carries an audio
	// stream.
	Silent bool

	// Inputs are extra ffmpeg input arguments appended after the slideshow
	// input (input index 0).
	Inputs []string

	// FilterComplex is empty when a direct stream mapping suffices.
	FilterComplex string

	// MapAudio is the -map value for the audio stream ("[aout]" or "1:a").
	MapAudio string
}

// MusicGain computes the music amplitude multiplier from the user volume
// slider and the ducking flag. Ducking only applies while narration exists.
func MusicGain(volumePercent int, duckMusic, voicePresent bool) float64 {
	if volumePercent < 0 {
		volumePercent = 0
	}
	if volumePercent > 100 {
		volumePercent = 100
	}

	gain := float64(volumePercent) / 100.0 * musicBaseGain
	if voicePresent && duckMusic {
		gain *= duckFactor
	}
	return gain
}

// BuildAudioPlan resolves the four mixing cases. Empty paths mean the
// corresponding track is absent.
func BuildAudioPlan(voicePath, musicPath string, totalDuration float64, musicVolume int, duckMusic, voicePresent bool) AudioPlan {
	if voicePath == "" && musicPath == "" {
		return AudioPlan{Silent: true}
	}

	plan := AudioPlan{}
	gain := MusicGain(musicVolume, duckMusic, voicePresent)

	inputIndex := 1
	voiceIndex, musicIndex := -1, -1

	if voicePath != "" {
		plan.Inputs = append(plan.Inputs, "-i", voicePath)
		voiceIndex = inputIndex
		inputIndex++
	}
	if musicPath != "" {
		// Loop the music indefinitely; atrim bounds it to the timeline.
		plan.Inputs = append(plan.Inputs, "-stream_loop", "-1", "-i", musicPath)
		musicIndex = inputIndex
	}

	switch {
	case voiceIndex >= 0 && musicIndex >= 0:
		graph := &Graph{}
		graph.Chain(
			[]string{fmt.Sprintf("[%d:a]", musicIndex)},
			(&Chain{}).ATrim(0, totalDuration).ASetPTS().Volume(gain),
			"[bg]",
		)
		graph.Chain(
			[]string{fmt.Sprintf("[%d:a]", voiceIndex)},
			(&Chain{}).ATrim(0, totalDuration).ASetPTS(),
			"[voice]",
		)
		graph.Chain([]string{"[voice]", "[bg]"}, (&Chain{}).AMix(2), "[aout]")
		plan.FilterComplex = graph.String()
		plan.MapAudio = "[aout]"

	case voiceIndex >= 0:
		// Narration alone maps straight through; -shortest trims it.
		plan.MapAudio = fmt.Sprintf("%d:a", voiceIndex)

	default:
		graph := &Graph{}
		graph.Chain(
			[]string{fmt.Sprintf("[%d:a]", musicIndex)},
			(&Chain{}).ATrim(0, totalDuration).ASetPTS().Volume(gain),
			"[aout]",
		)
		plan.FilterComplex = graph.String()
		plan.MapAudio = "[aout]"
	}

	return plan
}
