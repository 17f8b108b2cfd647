package models

import "time"

// Collection groups vocabulary entries for one language.
type Collection struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Vocabulary represents a single word to be learned.
type Vocabulary struct {
	ID           int64     `json:"id" db:"id"`
	CollectionID int64     `json:"collection_id" db:"collection_id"`
	Word         string    `json:"word" db:"word"`
	Definitions  string    `json:"definitions" db:"definitions"` // Semicolon-separated list of definitions
	Example      string    `json:"example" db:"example"`         // Example sentence using the word
	Language     string    `json:"language" db:"language"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
