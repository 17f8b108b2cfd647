package models

import "time"

// StatisticsSnapshot is one daily per-language rollup of learning
// state, written by the background scheduler.
type StatisticsSnapshot struct {
	ID            int64     `json:"id" db:"id"`
	Language      string    `json:"language" db:"language"`
	TotalWords    int       `json:"total_words" db:"total_words"`
	DueWords      int       `json:"due_words" db:"due_words"`
	MasteredWords int       `json:"mastered_words" db:"mastered_words"` // Words in the top box
	AvgEasiness   float64   `json:"avg_easiness" db:"avg_easiness"`
	SnapshotDate  string    `json:"snapshot_date" db:"snapshot_date"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
