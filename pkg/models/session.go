package models

import "time"

// SessionAnswer is one answered question, recorded in presentation
// order. Re-queued repeats produce additional entries.
type SessionAnswer struct {
	VocabularyID     int64     `json:"vocabulary_id"`
	Correct          bool      `json:"correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// SessionStatistics aggregates an in-progress or finished session.
type SessionStatistics struct {
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         float64 `json:"accuracy"` // Percentage, 0 when nothing answered yet
	DistinctWords    int     `json:"distinct_words"`
	// Duration runs from the first answer to the last one.
	DurationSeconds int `json:"duration_seconds"`
}

// SessionSummary is the per-session record handed to the persistence
// layer when a tracked session completes.
type SessionSummary struct {
	ID               string       `json:"id" db:"id"`
	CollectionID     int64        `json:"collection_id" db:"collection_id"`
	Language         string       `json:"language" db:"language"`
	Mode             PracticeMode `json:"mode" db:"mode"`
	TotalQuestions   int          `json:"total_questions" db:"total_questions"`
	CorrectAnswers   int          `json:"correct_answers" db:"correct_answers"`
	IncorrectAnswers int          `json:"incorrect_answers" db:"incorrect_answers"`
	DistinctWords    int          `json:"distinct_words" db:"distinct_words"`
	DurationSeconds  int          `json:"duration_seconds" db:"duration_seconds"`
	TrackProgress    bool         `json:"track_progress" db:"track_progress"`
	StartedAt        time.Time    `json:"started_at" db:"started_at"`
	FinishedAt       time.Time    `json:"finished_at" db:"finished_at"`
}
