// Package spaced_repetition implements the scheduling algorithms that
// decide when a word comes back for review. Every algorithm is a pure
// function of (previous progress, answer outcome, time): the input
// record is never mutated, the same inputs always produce the same
// outputs, and nothing here touches storage.
package spaced_repetition

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// Sentinel errors for the spaced_repetition package.
// Use errors.Is to check: errors.Is(err, spaced_repetition.ErrUnknownAlgorithm)
var (
	ErrUnknownAlgorithm    = errors.New("spaced_repetition: unknown algorithm")
	ErrUnsupportedBoxCount = errors.New("spaced_repetition: unsupported box count")
	ErrBoxOutOfRange       = errors.New("spaced_repetition: box out of range")
)

// Algorithm computes a word's next scheduling state from one answer.
//
// Apply returns the updated progress and whether the box advanced.
// Implementations clear CompletedModesInCycle themselves whenever a
// cycle completes, on a box advance or on a top-box cycle restart, so
// the set never leaks across cycles no matter who calls them.
type Algorithm interface {
	Apply(progress models.WordProgress, correct bool, now time.Time) (models.WordProgress, bool)
}

// ForSettings returns the algorithm selected by the settings. An
// unrecognized identifier or box count is a configuration error, never
// silently defaulted.
func ForSettings(s models.LearningSettings) (Algorithm, error) {
	if !IsSupportedBoxCount(s.BoxCount) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBoxCount, s.BoxCount)
	}
	switch s.Algorithm {
	case models.AlgorithmSM2:
		return &SM2{settings: s}, nil
	case models.AlgorithmModifiedSM2:
		return &ModifiedSM2{settings: s}, nil
	case models.AlgorithmSimpleDoubling:
		return &SimpleDoubling{settings: s}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s.Algorithm)
	}
}

// maybeAdvance moves the word up one box when the streak has reached
// the configured threshold and every practice mode has been completed
// in the current cycle. Completing a cycle resets the streak and clears
// the mode set; in the top box the cycle restarts without a box change.
// Reports whether the box actually advanced.
func maybeAdvance(p *models.WordProgress, s models.LearningSettings) bool {
	if p.Streak < s.AdvanceThreshold || !p.CompletedModesInCycle.IsComplete() {
		return false
	}
	advanced := p.BoxNumber < s.BoxCount
	if advanced {
		p.BoxNumber++
	}
	p.Streak = 0
	p.CompletedModesInCycle = nil
	return advanced
}

// finishReview applies the bookkeeping every algorithm shares: review
// counters, the next review date derived from the new interval, and the
// updated-at stamp.
func finishReview(p *models.WordProgress, correct bool, now time.Time) {
	p.TotalReviews++
	if correct {
		p.TotalCorrect++
	} else {
		p.TotalIncorrect++
	}
	p.NextReviewAt = now.AddDate(0, 0, p.IntervalDays)
	p.UpdatedAt = now
}

func roundInterval(days float64) int {
	iv := int(math.Round(days))
	if iv < 1 {
		return 1
	}
	return iv
}
