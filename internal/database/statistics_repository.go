package database

import (
	"context"
	"fmt"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// StatisticsRepository stores the daily per-language snapshots written
// by the background scheduler.
type StatisticsRepository struct {
	db QueryI
}

func NewStatisticsRepository(db QueryI) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Record writes a snapshot, replacing an earlier one for the same
// language and date so the job can safely run more than once a day.
func (r *StatisticsRepository) Record(ctx context.Context, s models.StatisticsSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO statistics_snapshots (
			language, total_words, due_words, mastered_words, avg_easiness, snapshot_date
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (language, snapshot_date) DO UPDATE SET
			total_words = EXCLUDED.total_words,
			due_words = EXCLUDED.due_words,
			mastered_words = EXCLUDED.mastered_words,
			avg_easiness = EXCLUDED.avg_easiness
	`, s.Language, s.TotalWords, s.DueWords, s.MasteredWords, s.AvgEasiness, s.SnapshotDate)
	if err != nil {
		return fmt.Errorf("failed to record statistics snapshot: %w", err)
	}
	return nil
}

// History returns the most recent snapshots for a language, newest
// first.
func (r *StatisticsRepository) History(ctx context.Context, language string, limit int) ([]models.StatisticsSnapshot, error) {
	var out []models.StatisticsSnapshot
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, language, total_words, due_words, mastered_words,
		       avg_easiness, snapshot_date, created_at
		FROM statistics_snapshots
		WHERE language = $1
		ORDER BY snapshot_date DESC
		LIMIT $2
	`, language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list statistics snapshots: %w", err)
	}
	return out, nil
}
