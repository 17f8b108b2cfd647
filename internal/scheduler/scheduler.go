// Package scheduler runs the daily statistics snapshot in the
// background. It is plumbing around the engine, not part of it: it only
// reads aggregates and writes rollup rows.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// ProgressStats supplies the per-language aggregates for a snapshot.
type ProgressStats interface {
	Languages(ctx context.Context) ([]string, error)
	LanguageStats(ctx context.Context, language string, now time.Time, topBox int) (models.StatisticsSnapshot, error)
}

// SnapshotStore persists the computed snapshots.
type SnapshotStore interface {
	Record(ctx context.Context, s models.StatisticsSnapshot) error
}

// SettingsSource provides the box count used to decide which box counts
// as mastered.
type SettingsSource interface {
	GetOrCreate(ctx context.Context) (models.LearningSettings, error)
}

// Scheduler owns the gocron instance and the snapshot job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	progress  ProgressStats
	store     SnapshotStore
	settings  SettingsSource
	log       *zap.Logger
}

// New creates a scheduler; Start registers and launches the jobs.
func New(progress ProgressStats, store SnapshotStore, settings SettingsSource, log *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		progress:  progress,
		store:     store,
		settings:  settings,
		log:       log,
	}
}

// Start schedules the daily snapshot at the given time of day (HH:MM)
// and runs the scheduler asynchronously.
func (s *Scheduler) Start(at string) error {
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.runSnapshot); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunSnapshotNow forces an immediate snapshot, used at startup so a
// fresh install gets a baseline row without waiting a day.
func (s *Scheduler) RunSnapshotNow() {
	s.runSnapshot()
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	now := time.Now()

	settings, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		s.log.Error("snapshot: failed to load settings", zap.Error(err))
		return
	}

	languages, err := s.progress.Languages(ctx)
	if err != nil {
		s.log.Error("snapshot: failed to list languages", zap.Error(err))
		return
	}

	for _, lang := range languages {
		snap, err := s.progress.LanguageStats(ctx, lang, now, settings.BoxCount)
		if err != nil {
			s.log.Error("snapshot: failed to aggregate", zap.String("language", lang), zap.Error(err))
			continue
		}
		if err := s.store.Record(ctx, snap); err != nil {
			s.log.Error("snapshot: failed to record", zap.String("language", lang), zap.Error(err))
			continue
		}
		s.log.Info("snapshot recorded",
			zap.String("language", lang),
			zap.Int("total_words", snap.TotalWords),
			zap.Int("due_words", snap.DueWords),
			zap.Int("mastered_words", snap.MasteredWords),
		)
	}
}
