package media

// ---------------------------------------------------------------------------
// Timing resolver
//
// Priority order is load-bearing: an explicit user-chosen duration always
// wins over narration length; narration length always wins over the default
// per-image cadence.
// ---------------------------------------------------------------------------

const (
	// Display time per image when nothing else dictates the timeline.
	defaultImageDuration = 3.0

	// Custom-duration bounds, mirrored by API validation.
	minCustomDurationSec = 5
	maxCustomDurationSec = 300
)

// TimingPlan is the resolved timeline for one render.
type TimingPlan struct {
	TotalSeconds    float64
	PerImageSeconds float64
}

// ResolveTiming computes total and per-image durations.
// durationSeconds is only consulted when durationMode is "custom".
func ResolveTiming(voiceDuration float64, imageCount int, voicePresent bool, durationMode string, durationSeconds *int) TimingPlan {
	count := imageCount
	if count < 1 {
		count = 1
	}

	if durationMode == "custom" && durationSeconds != nil {
		seconds := *durationSeconds
		if seconds < minCustomDurationSec {
			seconds = minCustomDurationSec
		}
		if seconds > maxCustomDurationSec {
			seconds = maxCustomDurationSec
		}
		total := float64(seconds)
		return TimingPlan{TotalSeconds: total, PerImageSeconds: total / float64(count)}
	}

	if voicePresent {
		total := voiceDuration
		if total < 0.1 {
			total = 0.1
		}
		perImage := total / float64(count)
		if perImage < 0.1 {
			perImage = 0.1
		}
		return TimingPlan{TotalSeconds: total, PerImageSeconds: perImage}
	}

	return TimingPlan{
		TotalSeconds:    defaultImageDuration * float64(count),
		PerImageSeconds: defaultImageDuration,
	}
}
