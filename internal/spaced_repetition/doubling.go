package spaced_repetition

import (
	"time"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// SimpleDoubling doubles the interval on every correct answer and
// halves it (floor one day) on every incorrect one. The box number is
// still maintained for display and keeps the shared mode-cycle gating,
// but it has no effect on the interval.
type SimpleDoubling struct {
	settings models.LearningSettings
}

// Apply processes one answer.
func (a *SimpleDoubling) Apply(p models.WordProgress, correct bool, now time.Time) (models.WordProgress, bool) {
	p = p.Clone()
	p.BoxNumber = ClampBox(p.BoxNumber, a.settings.BoxCount)
	p.PrevIntervalDays = p.IntervalDays

	advanced := false
	if correct {
		p.Streak++
		if p.IntervalDays < 1 {
			p.IntervalDays = 1
		}
		p.IntervalDays *= 2
		advanced = maybeAdvance(&p, a.settings)
	} else {
		p.Streak = 0
		p.IntervalDays /= 2
		if p.IntervalDays < 1 {
			p.IntervalDays = 1
		}
	}

	finishReview(&p, correct, now)
	return p, advanced
}
