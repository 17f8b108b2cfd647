package models

import "time"

// WordProgress tracks the scheduling state for one word in one language.
// A record is created on the first answer and mutated on every answer
// after that; it is never deleted.
type WordProgress struct {
	ID           int64  `json:"id"`
	VocabularyID int64  `json:"vocabulary_id"`
	Word         string `json:"word"`
	Language     string `json:"language"`

	BoxNumber        int     `json:"box_number"`         // Current Leitner box, 1..box count
	EasinessFactor   float64 `json:"easiness_factor"`    // SM-2 only, kept within [1.3, 2.5]
	IntervalDays     int     `json:"interval_days"`      // Days until the next review
	PrevIntervalDays int     `json:"prev_interval_days"` // Interval before the last answer

	Streak         int `json:"streak"` // Consecutive correct answers
	TotalReviews   int `json:"total_reviews"`
	TotalCorrect   int `json:"total_correct"`
	TotalIncorrect int `json:"total_incorrect"`

	// Modes answered correctly or incorrectly in the current cycle.
	// Cleared when a cycle completes: on a box advance, or on a cycle
	// restart in the top box.
	CompletedModesInCycle ModeSet `json:"completed_modes_in_cycle"`

	NextReviewAt time.Time `json:"next_review_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultEasinessFactor is the SM-2 starting easiness for a fresh word.
const DefaultEasinessFactor = 2.5

// NewWordProgress returns the initial state for a word that has never
// been answered: box 1, easiness 2.5, one-day interval, empty cycle.
func NewWordProgress(v Vocabulary, now time.Time) WordProgress {
	return WordProgress{
		VocabularyID:   v.ID,
		Word:           v.Word,
		Language:       v.Language,
		BoxNumber:      1,
		EasinessFactor: DefaultEasinessFactor,
		IntervalDays:   1,
		NextReviewAt:   now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Clone returns a value copy whose mode set does not share storage
// with the receiver.
func (p WordProgress) Clone() WordProgress {
	out := p
	out.CompletedModesInCycle = p.CompletedModesInCycle.clone()
	return out
}

// IsDue reports whether the word should be reviewed at the given time.
func (p WordProgress) IsDue(now time.Time) bool {
	return !p.NextReviewAt.After(now)
}
