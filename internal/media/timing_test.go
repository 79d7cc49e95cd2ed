package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestResolveTimingCustomDurationWins(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		expected  float64
	}{
		{"below minimum clamps to 5", 2, 5},
		{"minimum", 5, 5},
		{"mid range", 42, 42},
		{"maximum", 300, 300},
		{"above maximum clamps to 300", 900, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Custom duration beats narration even when a voice track exists.
			plan := ResolveTiming(77.7, 4, true, "custom", intPtr(tt.requested))
			assert.Equal(t, tt.expected, plan.TotalSeconds)
			assert.InDelta(t, tt.expected/4, plan.PerImageSeconds, 1e-9)
		})
	}
}

func TestResolveTimingCustomWithoutImages(t *testing.T) {
	plan := ResolveTiming(0, 0, false, "custom", intPtr(30))
	assert.Equal(t, 30.0, plan.TotalSeconds)
	// Image count floors at 1 so per-image duration stays positive.
	assert.Equal(t, 30.0, plan.PerImageSeconds)
}

func TestResolveTimingNarrationDictatesTotal(t *testing.T) {
	for _, imageCount := range []int{0, 1, 3, 12} {
		plan := ResolveTiming(4.2, imageCount, true, "auto", nil)
		assert.Equal(t, 4.2, plan.TotalSeconds, "image count %d must not change total", imageCount)
	}

	// Tiny narration still yields a positive timeline.
	plan := ResolveTiming(0.02, 2, true, "auto", nil)
	assert.Equal(t, 0.1, plan.TotalSeconds)
	assert.Equal(t, 0.1, plan.PerImageSeconds)
}

func TestResolveTimingDefaultCadence(t *testing.T) {
	tests := []struct {
		images        int
		expectedTotal float64
	}{
		{0, 3.0},
		{1, 3.0},
		{3, 9.0},
		{10, 30.0},
	}

	for _, tt := range tests {
		plan := ResolveTiming(0, tt.images, false, "auto", nil)
		assert.Equal(t, tt.expectedTotal, plan.TotalSeconds)
		assert.Equal(t, 3.0, plan.PerImageSeconds)
	}
}

func TestResolveTimingScenarioNarrationWithCaptions(t *testing.T) {
	// Empty image list, narration probed at 4.2s, auto mode.
	plan := ResolveTiming(4.2, 0, true, "auto", nil)
	assert.Equal(t, 4.2, plan.TotalSeconds)
	assert.InDelta(t, 4.2, plan.PerImageSeconds, 1e-9)
}

func TestResolveTimingCustomNilSecondsFallsThrough(t *testing.T) {
	// A custom mode without a duration behaves like auto.
	plan := ResolveTiming(6.0, 2, true, "custom", nil)
	assert.Equal(t, 6.0, plan.TotalSeconds)
}
