package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// SettingsRepository persists the single learning-settings row.
type SettingsRepository struct {
	db QueryI
}

func NewSettingsRepository(db QueryI) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = `
	algorithm, box_count, advance_threshold, requeue_failed_words,
	demote_on_incorrect, new_words_per_day, daily_review_cap,
	auto_advance_seconds, created_at, updated_at`

// GetOrCreate reads the learning settings, seeding the defaults row on
// first use.
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (models.LearningSettings, error) {
	var s models.LearningSettings
	err := r.db.GetContext(ctx, &s,
		"SELECT"+settingsColumns+" FROM learning_settings WHERE id = 1")
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.LearningSettings{}, fmt.Errorf("failed to get learning settings: %w", err)
	}

	s = models.DefaultLearningSettings()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO learning_settings (
			id, algorithm, box_count, advance_threshold, requeue_failed_words,
			demote_on_incorrect, new_words_per_day, daily_review_cap, auto_advance_seconds
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
	`, s.Algorithm, s.BoxCount, s.AdvanceThreshold, s.RequeueFailedWords,
		s.DemoteOnIncorrect, s.NewWordsPerDay, s.DailyReviewCap, s.AutoAdvanceSeconds)
	if err != nil {
		return models.LearningSettings{}, fmt.Errorf("failed to seed learning settings: %w", err)
	}
	return r.GetOrCreate(ctx)
}

// Update overwrites the settings row.
func (r *SettingsRepository) Update(ctx context.Context, s models.LearningSettings) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE learning_settings SET
			algorithm = $1,
			box_count = $2,
			advance_threshold = $3,
			requeue_failed_words = $4,
			demote_on_incorrect = $5,
			new_words_per_day = $6,
			daily_review_cap = $7,
			auto_advance_seconds = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, s.Algorithm, s.BoxCount, s.AdvanceThreshold, s.RequeueFailedWords,
		s.DemoteOnIncorrect, s.NewWordsPerDay, s.DailyReviewCap, s.AutoAdvanceSeconds)
	if err != nil {
		return fmt.Errorf("failed to update learning settings: %w", err)
	}
	return nil
}
