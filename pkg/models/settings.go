package models

import "time"

// Algorithm identifies one of the supported scheduling algorithms.
type Algorithm string

const (
	// AlgorithmSM2 is the classic SuperMemo-2 easiness-factor algorithm.
	AlgorithmSM2 Algorithm = "sm2"
	// AlgorithmModifiedSM2 ignores easiness and takes intervals from
	// the per-box preset table.
	AlgorithmModifiedSM2 Algorithm = "modified_sm2"
	// AlgorithmSimpleDoubling doubles the interval on every correct
	// answer and halves it on every incorrect one.
	AlgorithmSimpleDoubling Algorithm = "simple_doubling"
)

// IsValid reports whether a is a recognized algorithm identifier.
func (a Algorithm) IsValid() bool {
	switch a {
	case AlgorithmSM2, AlgorithmModifiedSM2, AlgorithmSimpleDoubling:
		return true
	}
	return false
}

// LearningSettings holds the tunable configuration the scheduling
// engine reads. It is owned by the settings store and read-only to the
// engine.
type LearningSettings struct {
	Algorithm          Algorithm `json:"algorithm" db:"algorithm" validate:"oneof=sm2 modified_sm2 simple_doubling"`
	BoxCount           int       `json:"box_count" db:"box_count" validate:"oneof=3 5 7"`
	AdvanceThreshold   int       `json:"advance_threshold" db:"advance_threshold" validate:"min=1,max=10"`
	RequeueFailedWords bool      `json:"requeue_failed_words" db:"requeue_failed_words"`
	DemoteOnIncorrect  bool      `json:"demote_on_incorrect" db:"demote_on_incorrect"`
	NewWordsPerDay     int       `json:"new_words_per_day" db:"new_words_per_day" validate:"min=0"`
	DailyReviewCap     int       `json:"daily_review_cap" db:"daily_review_cap" validate:"min=0"`
	// AutoAdvanceSeconds controls how long the UI waits before moving
	// on after an answer. Scheduling never reads it.
	AutoAdvanceSeconds int       `json:"auto_advance_seconds" db:"auto_advance_seconds" validate:"min=0"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultLearningSettings returns the settings a learner starts with.
func DefaultLearningSettings() LearningSettings {
	return LearningSettings{
		Algorithm:          AlgorithmModifiedSM2,
		BoxCount:           5,
		AdvanceThreshold:   3,
		RequeueFailedWords: true,
		DemoteOnIncorrect:  true,
		NewWordsPerDay:     10,
		DailyReviewCap:     50,
		AutoAdvanceSeconds: 3,
	}
}
