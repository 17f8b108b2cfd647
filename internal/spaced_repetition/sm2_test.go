package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

func TestSM2CorrectAnswer(t *testing.T) {
	t.Parallel()

	algo, err := ForSettings(testSettings(models.AlgorithmSM2))
	require.NoError(t, err)

	p := freshProgress(testNow)
	next, transitioned := algo.Apply(p, true, testNow)

	assert.False(t, transitioned)
	// EF' = 2.5 + 0.1 clamps back to the 2.5 ceiling.
	assert.InDelta(t, 2.5, next.EasinessFactor, 1e-9)
	// round(1 * 2.5) = 3 days.
	assert.Equal(t, 3, next.IntervalDays)
	assert.Equal(t, 1, next.PrevIntervalDays)
	assert.Equal(t, 1, next.Streak)
	assert.Equal(t, testNow.AddDate(0, 0, 3), next.NextReviewAt)
}

func TestSM2IncorrectAnswer(t *testing.T) {
	t.Parallel()

	algo, err := ForSettings(testSettings(models.AlgorithmSM2))
	require.NoError(t, err)

	p := freshProgress(testNow)
	p.IntervalDays = 14
	p.Streak = 4
	p.EasinessFactor = 2.0

	next, transitioned := algo.Apply(p, false, testNow)

	assert.False(t, transitioned)
	assert.Equal(t, 0, next.Streak)
	assert.Equal(t, 1, next.IntervalDays)
	assert.Equal(t, 14, next.PrevIntervalDays)
	// EF' = 2.0 + (0.1 - 3*(0.08 + 3*0.02)) = 2.0 - 0.32.
	assert.InDelta(t, 1.68, next.EasinessFactor, 1e-9)
	assert.Equal(t, testNow.AddDate(0, 0, 1), next.NextReviewAt)
}

func TestSM2EasinessNeverLeavesBounds(t *testing.T) {
	t.Parallel()

	algo, err := ForSettings(testSettings(models.AlgorithmSM2))
	require.NoError(t, err)

	// Hammer with incorrect answers: EF must bottom out at 1.3.
	p := freshProgress(testNow)
	for i := 0; i < 20; i++ {
		p, _ = algo.Apply(p, false, testNow)
	}
	assert.InDelta(t, MinEasiness, p.EasinessFactor, 1e-9)

	// Then recover with correct answers: EF must cap at 2.5.
	for i := 0; i < 20; i++ {
		p, _ = algo.Apply(p, true, testNow)
	}
	assert.InDelta(t, MaxEasiness, p.EasinessFactor, 1e-9)
}

func TestSM2IntervalGrowsMultiplicatively(t *testing.T) {
	t.Parallel()

	algo, err := ForSettings(testSettings(models.AlgorithmSM2))
	require.NoError(t, err)

	p := freshProgress(testNow)
	p.EasinessFactor = 2.0

	var intervals []int
	for i := 0; i < 4; i++ {
		p, _ = algo.Apply(p, true, testNow)
		intervals = append(intervals, p.IntervalDays)
	}
	// EF climbs by 0.1 per correct answer: 2.1, 2.2, 2.3, 2.4.
	// round(1*2.1)=2, round(2*2.2)=4, round(4*2.3)=9, round(9*2.4)=22.
	assert.Equal(t, []int{2, 4, 9, 22}, intervals)
}

func TestSM2AdvanceRequiresThresholdAndFullCycle(t *testing.T) {
	t.Parallel()

	algo, err := ForSettings(testSettings(models.AlgorithmSM2))
	require.NoError(t, err)

	p := freshProgress(testNow)
	p.Streak = 2
	p.CompletedModesInCycle = allModes()

	// Streak reaches the threshold on this answer with a full cycle.
	next, transitioned := algo.Apply(p, true, testNow)
	assert.True(t, transitioned)
	assert.Equal(t, 2, next.BoxNumber)
	assert.Equal(t, 0, next.Streak)
	assert.Empty(t, next.CompletedModesInCycle)

	// Same streak without a full cycle stays put.
	p.CompletedModesInCycle = models.ModeSet{models.ModeFlashcard}
	next, transitioned = algo.Apply(p, true, testNow)
	assert.False(t, transitioned)
	assert.Equal(t, 1, next.BoxNumber)
	assert.Equal(t, 3, next.Streak)
}

func TestSM2ClampsStoredBoxAboveConfiguredCount(t *testing.T) {
	t.Parallel()

	settings := testSettings(models.AlgorithmSM2)
	settings.BoxCount = 3
	algo, err := ForSettings(settings)
	require.NoError(t, err)

	// Progress written under a 7-box configuration.
	p := freshProgress(testNow)
	p.BoxNumber = 6

	next, _ := algo.Apply(p, true, testNow)
	assert.Equal(t, 3, next.BoxNumber)
}

func TestNextEasiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ef      float64
		quality int
		want    float64
	}{
		{name: "correct at ceiling", ef: 2.5, quality: 5, want: 2.5},
		{name: "correct below ceiling", ef: 2.0, quality: 5, want: 2.1},
		{name: "incorrect", ef: 2.5, quality: 2, want: 2.18},
		{name: "incorrect at floor", ef: 1.3, quality: 2, want: 1.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, nextEasiness(tt.ef, tt.quality), 1e-9)
		})
	}
}

func TestSM2SetsUpdatedAt(t *testing.T) {
	t.Parallel()

	algo, err := ForSettings(testSettings(models.AlgorithmSM2))
	require.NoError(t, err)

	later := testNow.Add(48 * time.Hour)
	next, _ := algo.Apply(freshProgress(testNow), true, later)
	assert.Equal(t, later, next.UpdatedAt)
	assert.Equal(t, testNow, next.CreatedAt)
}
