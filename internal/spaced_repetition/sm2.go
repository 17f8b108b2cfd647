package spaced_repetition

import (
	"time"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// Easiness factor bounds for SM-2.
const (
	MinEasiness = 1.3
	MaxEasiness = 2.5
)

// Fixed quality values fed into the SM-2 easiness formula. The engine
// only knows correct/incorrect, so the 0-5 quality scale collapses to
// two points.
const (
	qualityCorrect   = 5
	qualityIncorrect = 2
)

// SM2 implements the SuperMemo-2 algorithm. The easiness factor grows
// or shrinks with answer quality and multiplies the interval on every
// correct answer.
type SM2 struct {
	settings models.LearningSettings
}

// Apply processes one answer. On a correct answer the interval becomes
// round(previous interval x new easiness), minimum one day; on an
// incorrect answer the interval resets to one day and the streak to
// zero. The box advances only when the streak reaches the configured
// threshold and the mode cycle is complete.
func (a *SM2) Apply(p models.WordProgress, correct bool, now time.Time) (models.WordProgress, bool) {
	p = p.Clone()

	q := qualityIncorrect
	if correct {
		q = qualityCorrect
	}
	p.EasinessFactor = nextEasiness(p.EasinessFactor, q)

	p.PrevIntervalDays = p.IntervalDays
	advanced := false
	if correct {
		p.Streak++
		p.IntervalDays = roundInterval(float64(p.IntervalDays) * p.EasinessFactor)
		advanced = maybeAdvance(&p, a.settings)
	} else {
		p.Streak = 0
		p.IntervalDays = 1
	}
	p.BoxNumber = ClampBox(p.BoxNumber, a.settings.BoxCount)

	finishReview(&p, correct, now)
	return p, advanced
}

// nextEasiness applies the SM-2 easiness update
// EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)) and clamps the result
// to [MinEasiness, MaxEasiness].
func nextEasiness(ef float64, quality int) float64 {
	d := float64(5 - quality)
	ef += 0.1 - d*(0.08+d*0.02)
	if ef < MinEasiness {
		return MinEasiness
	}
	if ef > MaxEasiness {
		return MaxEasiness
	}
	return ef
}
