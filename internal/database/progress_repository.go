package database

import (
	"context"
	"fmt"
	"time"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// ProgressRepository persists WordProgress records.
type ProgressRepository struct {
	db QueryI
}

func NewProgressRepository(db QueryI) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// progressRow mirrors the word_progress table; the mode set is stored
// as a comma-separated string.
type progressRow struct {
	ID               int64     `db:"id"`
	VocabularyID     int64     `db:"vocabulary_id"`
	Word             string    `db:"word"`
	Language         string    `db:"language"`
	BoxNumber        int       `db:"box_number"`
	EasinessFactor   float64   `db:"easiness_factor"`
	IntervalDays     int       `db:"interval_days"`
	PrevIntervalDays int       `db:"prev_interval_days"`
	Streak           int       `db:"streak"`
	TotalReviews     int       `db:"total_reviews"`
	TotalCorrect     int       `db:"total_correct"`
	TotalIncorrect   int       `db:"total_incorrect"`
	CompletedModes   string    `db:"completed_modes"`
	NextReviewAt     time.Time `db:"next_review_at"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r progressRow) toModel() models.WordProgress {
	return models.WordProgress{
		ID:                    r.ID,
		VocabularyID:          r.VocabularyID,
		Word:                  r.Word,
		Language:              r.Language,
		BoxNumber:             r.BoxNumber,
		EasinessFactor:        r.EasinessFactor,
		IntervalDays:          r.IntervalDays,
		PrevIntervalDays:      r.PrevIntervalDays,
		Streak:                r.Streak,
		TotalReviews:          r.TotalReviews,
		TotalCorrect:          r.TotalCorrect,
		TotalIncorrect:        r.TotalIncorrect,
		CompletedModesInCycle: models.DecodeModeSet(r.CompletedModes),
		NextReviewAt:          r.NextReviewAt,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// GetByLanguage returns all progress records for a language.
func (r *ProgressRepository) GetByLanguage(ctx context.Context, language string) ([]models.WordProgress, error) {
	var rows []progressRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, vocabulary_id, word, language, box_number, easiness_factor,
		       interval_days, prev_interval_days, streak, total_reviews,
		       total_correct, total_incorrect, completed_modes,
		       next_review_at, created_at, updated_at
		FROM word_progress
		WHERE language = $1
		ORDER BY id
	`, language)
	if err != nil {
		return nil, fmt.Errorf("failed to get practice progress: %w", err)
	}
	out := make([]models.WordProgress, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

// Upsert writes a progress record keyed by (vocabulary, language). The
// write is idempotent, so a failed batch can simply be retried.
func (r *ProgressRepository) Upsert(ctx context.Context, p *models.WordProgress) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO word_progress (
			vocabulary_id, word, language, box_number, easiness_factor,
			interval_days, prev_interval_days, streak, total_reviews,
			total_correct, total_incorrect, completed_modes,
			next_review_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (vocabulary_id, language) DO UPDATE SET
			box_number = EXCLUDED.box_number,
			easiness_factor = EXCLUDED.easiness_factor,
			interval_days = EXCLUDED.interval_days,
			prev_interval_days = EXCLUDED.prev_interval_days,
			streak = EXCLUDED.streak,
			total_reviews = EXCLUDED.total_reviews,
			total_correct = EXCLUDED.total_correct,
			total_incorrect = EXCLUDED.total_incorrect,
			completed_modes = EXCLUDED.completed_modes,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at
	`,
		p.VocabularyID, p.Word, p.Language, p.BoxNumber, p.EasinessFactor,
		p.IntervalDays, p.PrevIntervalDays, p.Streak, p.TotalReviews,
		p.TotalCorrect, p.TotalIncorrect, p.CompletedModesInCycle.Encode(),
		p.NextReviewAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert word progress for %q: %w", p.Word, err)
	}
	return r.db.GetContext(ctx, &p.ID,
		"SELECT id FROM word_progress WHERE vocabulary_id = $1 AND language = $2",
		p.VocabularyID, p.Language)
}

// Languages lists the languages that have any tracked progress.
func (r *ProgressRepository) Languages(ctx context.Context) ([]string, error) {
	var langs []string
	if err := r.db.SelectContext(ctx, &langs,
		"SELECT DISTINCT language FROM word_progress ORDER BY language"); err != nil {
		return nil, fmt.Errorf("failed to list progress languages: %w", err)
	}
	return langs, nil
}

// CountDue returns how many tracked words are due at the given time.
func (r *ProgressRepository) CountDue(ctx context.Context, language string, now time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM word_progress WHERE language = $1 AND next_review_at <= $2",
		language, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due words: %w", err)
	}
	return n, nil
}

// LanguageStats aggregates a language's tracked words for the daily
// snapshot: totals, due-now count, words in or above the given top box,
// and average easiness.
func (r *ProgressRepository) LanguageStats(ctx context.Context, language string, now time.Time, topBox int) (models.StatisticsSnapshot, error) {
	type statsRow struct {
		TotalWords    int     `db:"total_words"`
		DueWords      int     `db:"due_words"`
		MasteredWords int     `db:"mastered_words"`
		AvgEasiness   float64 `db:"avg_easiness"`
	}
	var row statsRow
	err := r.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*) AS total_words,
			COALESCE(SUM(CASE WHEN next_review_at <= $2 THEN 1 ELSE 0 END), 0) AS due_words,
			COALESCE(SUM(CASE WHEN box_number >= $3 THEN 1 ELSE 0 END), 0) AS mastered_words,
			COALESCE(AVG(easiness_factor), 2.5) AS avg_easiness
		FROM word_progress
		WHERE language = $1
	`, language, now, topBox)
	if err != nil {
		return models.StatisticsSnapshot{}, fmt.Errorf("failed to aggregate stats for %q: %w", language, err)
	}
	return models.StatisticsSnapshot{
		Language:      language,
		TotalWords:    row.TotalWords,
		DueWords:      row.DueWords,
		MasteredWords: row.MasteredWords,
		AvgEasiness:   row.AvgEasiness,
		SnapshotDate:  now.Format("2006-01-02"),
	}, nil
}
