package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

type fakeProgressStats struct {
	languages []string
	stats     map[string]models.StatisticsSnapshot
	statsErr  map[string]error
	topBoxes  []int
}

func (f *fakeProgressStats) Languages(_ context.Context) ([]string, error) {
	return f.languages, nil
}

func (f *fakeProgressStats) LanguageStats(_ context.Context, language string, _ time.Time, topBox int) (models.StatisticsSnapshot, error) {
	f.topBoxes = append(f.topBoxes, topBox)
	if err := f.statsErr[language]; err != nil {
		return models.StatisticsSnapshot{}, err
	}
	return f.stats[language], nil
}

type fakeSnapshotStore struct {
	recorded []models.StatisticsSnapshot
	err      error
}

func (f *fakeSnapshotStore) Record(_ context.Context, s models.StatisticsSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, s)
	return nil
}

type fakeSettingsSource struct {
	settings models.LearningSettings
}

func (f *fakeSettingsSource) GetOrCreate(_ context.Context) (models.LearningSettings, error) {
	return f.settings, nil
}

func TestRunSnapshotRecordsEveryLanguage(t *testing.T) {
	t.Parallel()

	progress := &fakeProgressStats{
		languages: []string{"de", "en"},
		stats: map[string]models.StatisticsSnapshot{
			"de": {Language: "de", TotalWords: 40, DueWords: 5},
			"en": {Language: "en", TotalWords: 120, DueWords: 12},
		},
	}
	store := &fakeSnapshotStore{}
	settings := &fakeSettingsSource{settings: models.DefaultLearningSettings()}

	s := New(progress, store, settings, zap.NewNop())
	s.RunSnapshotNow()

	assert.Len(t, store.recorded, 2)
	assert.Equal(t, "de", store.recorded[0].Language)
	assert.Equal(t, "en", store.recorded[1].Language)
	// The configured box count decides what counts as mastered.
	assert.Equal(t, []int{5, 5}, progress.topBoxes)
}

func TestRunSnapshotSkipsFailedLanguage(t *testing.T) {
	t.Parallel()

	progress := &fakeProgressStats{
		languages: []string{"de", "en"},
		stats: map[string]models.StatisticsSnapshot{
			"en": {Language: "en", TotalWords: 120},
		},
		statsErr: map[string]error{"de": errors.New("aggregate failed")},
	}
	store := &fakeSnapshotStore{}
	settings := &fakeSettingsSource{settings: models.DefaultLearningSettings()}

	s := New(progress, store, settings, zap.NewNop())
	s.RunSnapshotNow()

	// One language failing must not block the others.
	assert.Len(t, store.recorded, 1)
	assert.Equal(t, "en", store.recorded[0].Language)
}

func TestStartRejectsBadTime(t *testing.T) {
	t.Parallel()

	s := New(&fakeProgressStats{}, &fakeSnapshotStore{},
		&fakeSettingsSource{settings: models.DefaultLearningSettings()}, zap.NewNop())
	defer s.Stop()

	assert.Error(t, s.Start("25:99"))
	assert.NoError(t, s.Start("03:00"))
}
