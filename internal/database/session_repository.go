package database

import (
	"context"
	"fmt"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// SessionRepository persists per-session summary records.
type SessionRepository struct {
	db QueryI
}

func NewSessionRepository(db QueryI) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session summary.
func (r *SessionRepository) Create(ctx context.Context, s models.SessionSummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practice_sessions (
			id, collection_id, language, mode, total_questions,
			correct_answers, incorrect_answers, distinct_words,
			duration_seconds, track_progress, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, s.ID, s.CollectionID, s.Language, s.Mode, s.TotalQuestions,
		s.CorrectAnswers, s.IncorrectAnswers, s.DistinctWords,
		s.DurationSeconds, s.TrackProgress, s.StartedAt, s.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to create practice session record: %w", err)
	}
	return nil
}

// ListRecent returns the most recent session summaries for a language.
func (r *SessionRepository) ListRecent(ctx context.Context, language string, limit int) ([]models.SessionSummary, error) {
	var out []models.SessionSummary
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, collection_id, language, mode, total_questions,
		       correct_answers, incorrect_answers, distinct_words,
		       duration_seconds, track_progress, started_at, finished_at
		FROM practice_sessions
		WHERE language = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`, language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list practice sessions: %w", err)
	}
	return out, nil
}
