package spaced_repetition

import (
	"time"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// ModifiedSM2 is the box-driven variant: it ignores the easiness factor
// entirely and looks intervals up from the preset table for the
// configured box count.
type ModifiedSM2 struct {
	settings models.LearningSettings
}

// Apply processes one answer. A correct answer extends the streak and,
// once the streak reaches the threshold with a complete mode cycle,
// advances the box; the interval is always the preset for the resulting
// box. An incorrect answer resets the streak, demotes the box by one
// (floor 1) when demotion is configured, and resets the interval to the
// box 1 preset.
func (a *ModifiedSM2) Apply(p models.WordProgress, correct bool, now time.Time) (models.WordProgress, bool) {
	p = p.Clone()
	p.BoxNumber = ClampBox(p.BoxNumber, a.settings.BoxCount)
	p.PrevIntervalDays = p.IntervalDays

	advanced := false
	if correct {
		p.Streak++
		advanced = maybeAdvance(&p, a.settings)
		p.IntervalDays = a.presetInterval(p.BoxNumber)
	} else {
		p.Streak = 0
		if a.settings.DemoteOnIncorrect && p.BoxNumber > 1 {
			p.BoxNumber--
		}
		p.IntervalDays = a.presetInterval(1)
	}

	finishReview(&p, correct, now)
	return p, advanced
}

func (a *ModifiedSM2) presetInterval(box int) int {
	// Box count is validated in ForSettings and the box clamped, so the
	// lookup cannot fail.
	days, err := IntervalForBox(ClampBox(box, a.settings.BoxCount), a.settings.BoxCount)
	if err != nil {
		return 1
	}
	return days
}
