package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, InitSchema(db))
	return db
}

func seedWord(t *testing.T, repo Repository, word string) models.Vocabulary {
	t.Helper()
	ctx := context.Background()
	collectionID, err := repo.EnsureCollection(ctx, "unit 1", "en")
	require.NoError(t, err)
	v := models.Vocabulary{
		CollectionID: collectionID,
		Word:         word,
		Definitions:  "definition of " + word,
		Language:     "en",
	}
	require.NoError(t, repo.VocabularyRepository.Upsert(ctx, &v))
	return v
}

func TestSchemaStatementsDialect(t *testing.T) {
	t.Parallel()

	autoKeyed := map[string]bool{
		"collections":          true,
		"vocabulary":           true,
		"word_progress":        true,
		"statistics_snapshots": true,
	}

	for _, stmt := range schemaStatements("postgres") {
		assert.NotContains(t, stmt.sql, "AUTOINCREMENT", stmt.name)
		if autoKeyed[stmt.name] {
			assert.Contains(t, stmt.sql, "GENERATED ALWAYS AS IDENTITY", stmt.name)
		}
	}
	for _, stmt := range schemaStatements("sqlite3") {
		if autoKeyed[stmt.name] {
			assert.Contains(t, stmt.sql, "AUTOINCREMENT", stmt.name)
		}
	}
}

func TestEnsureCollectionIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	first, err := repo.EnsureCollection(ctx, "unit 1", "en")
	require.NoError(t, err)
	second, err := repo.EnsureCollection(ctx, "unit 1", "en")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Same name in another language is a different collection.
	other, err := repo.EnsureCollection(ctx, "unit 1", "de")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestVocabularyUpsert(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	v := seedWord(t, repo, "apple")
	require.NotZero(t, v.ID)

	// Upserting the same word refreshes the definition, keeps the id.
	again := models.Vocabulary{
		CollectionID: v.CollectionID,
		Word:         "apple",
		Definitions:  "a crisp fruit",
		Example:      "She ate an apple.",
		Language:     "en",
	}
	require.NoError(t, repo.VocabularyRepository.Upsert(ctx, &again))
	assert.Equal(t, v.ID, again.ID)

	words, err := repo.GetByCollection(ctx, v.CollectionID)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "a crisp fruit", words[0].Definitions)
	assert.Equal(t, "She ate an apple.", words[0].Example)

	byLang, err := repo.VocabularyRepository.GetByLanguage(ctx, "en")
	require.NoError(t, err)
	assert.Len(t, byLang, 1)
}

func TestProgressUpsertRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	v := seedWord(t, repo, "apple")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	p := models.NewWordProgress(v, now)
	p.BoxNumber = 3
	p.EasinessFactor = 2.1
	p.IntervalDays = 7
	p.Streak = 2
	p.TotalReviews = 5
	p.TotalCorrect = 4
	p.TotalIncorrect = 1
	p.CompletedModesInCycle = models.ModeSet{models.ModeFlashcard, models.ModeFillWord}
	p.NextReviewAt = now.AddDate(0, 0, 7)

	require.NoError(t, repo.ProgressRepository.Upsert(ctx, &p))
	require.NotZero(t, p.ID)

	got, err := repo.ProgressRepository.GetByLanguage(ctx, "en")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, v.ID, got[0].VocabularyID)
	assert.Equal(t, 3, got[0].BoxNumber)
	assert.InDelta(t, 2.1, got[0].EasinessFactor, 1e-9)
	assert.Equal(t, 7, got[0].IntervalDays)
	assert.Equal(t, 2, got[0].Streak)
	assert.Equal(t, models.ModeSet{models.ModeFlashcard, models.ModeFillWord},
		got[0].CompletedModesInCycle)
	assert.True(t, got[0].NextReviewAt.Equal(now.AddDate(0, 0, 7)))
}

func TestProgressUpsertReplacesExistingRow(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	v := seedWord(t, repo, "apple")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	p := models.NewWordProgress(v, now)
	require.NoError(t, repo.ProgressRepository.Upsert(ctx, &p))
	firstID := p.ID

	p.BoxNumber = 2
	p.Streak = 1
	p.CompletedModesInCycle = nil
	require.NoError(t, repo.ProgressRepository.Upsert(ctx, &p))
	assert.Equal(t, firstID, p.ID)

	got, err := repo.ProgressRepository.GetByLanguage(ctx, "en")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].BoxNumber)
	assert.Empty(t, got[0].CompletedModesInCycle)
}

func TestProgressCountDueAndLanguages(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	overdue := seedWord(t, repo, "apple")
	pending := seedWord(t, repo, "river")

	p1 := models.NewWordProgress(overdue, now.AddDate(0, 0, -3))
	p1.NextReviewAt = now.AddDate(0, 0, -2)
	require.NoError(t, repo.ProgressRepository.Upsert(ctx, &p1))

	p2 := models.NewWordProgress(pending, now.AddDate(0, 0, -3))
	p2.NextReviewAt = now.AddDate(0, 0, 5)
	require.NoError(t, repo.ProgressRepository.Upsert(ctx, &p2))

	n, err := repo.CountDue(ctx, "en", now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	langs, err := repo.Languages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, langs)
}

func TestProgressLanguageStats(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	words := []struct {
		word    string
		box     int
		ef      float64
		dueDays int
	}{
		{"apple", 5, 2.5, -1},
		{"river", 2, 2.1, -1},
		{"house", 1, 1.7, 3},
	}
	for _, w := range words {
		v := seedWord(t, repo, w.word)
		p := models.NewWordProgress(v, now.AddDate(0, 0, -10))
		p.BoxNumber = w.box
		p.EasinessFactor = w.ef
		p.NextReviewAt = now.AddDate(0, 0, w.dueDays)
		require.NoError(t, repo.ProgressRepository.Upsert(ctx, &p))
	}

	snap, err := repo.LanguageStats(ctx, "en", now, 5)
	require.NoError(t, err)

	assert.Equal(t, "en", snap.Language)
	assert.Equal(t, 3, snap.TotalWords)
	assert.Equal(t, 2, snap.DueWords)
	assert.Equal(t, 1, snap.MasteredWords)
	assert.InDelta(t, (2.5+2.1+1.7)/3, snap.AvgEasiness, 1e-9)
	assert.Equal(t, "2026-03-10", snap.SnapshotDate)
}

func TestSettingsGetOrCreateSeedsDefaults(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	s, err := repo.SettingsRepository.GetOrCreate(ctx)
	require.NoError(t, err)

	want := models.DefaultLearningSettings()
	assert.Equal(t, want.Algorithm, s.Algorithm)
	assert.Equal(t, want.BoxCount, s.BoxCount)
	assert.Equal(t, want.AdvanceThreshold, s.AdvanceThreshold)
	assert.Equal(t, want.RequeueFailedWords, s.RequeueFailedWords)
	assert.Equal(t, want.NewWordsPerDay, s.NewWordsPerDay)

	// A second call reads the same row back.
	again, err := repo.SettingsRepository.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Algorithm, again.Algorithm)
}

func TestSettingsUpdate(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	s, err := repo.SettingsRepository.GetOrCreate(ctx)
	require.NoError(t, err)

	s.Algorithm = models.AlgorithmSM2
	s.BoxCount = 7
	s.DemoteOnIncorrect = false
	require.NoError(t, repo.SettingsRepository.Update(ctx, s))

	got, err := repo.SettingsRepository.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AlgorithmSM2, got.Algorithm)
	assert.Equal(t, 7, got.BoxCount)
	assert.False(t, got.DemoteOnIncorrect)
}

func TestSessionCreateAndListRecent(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		sum := models.SessionSummary{
			ID:             "session-" + string(rune('a'+i)),
			CollectionID:   1,
			Language:       "en",
			Mode:           models.ModeFlashcard,
			TotalQuestions: 10 + i,
			CorrectAnswers: 8,
			TrackProgress:  true,
			StartedAt:      now.Add(time.Duration(i) * time.Hour),
			FinishedAt:     now.Add(time.Duration(i)*time.Hour + 10*time.Minute),
		}
		require.NoError(t, repo.SessionRepository.Create(ctx, sum))
	}

	got, err := repo.ListRecent(ctx, "en", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, "session-c", got[0].ID)
	assert.Equal(t, "session-b", got[1].ID)
}

func TestStatisticsRecordUpsertsPerDay(t *testing.T) {
	t.Parallel()

	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	snap := models.StatisticsSnapshot{
		Language:     "en",
		TotalWords:   10,
		DueWords:     4,
		AvgEasiness:  2.3,
		SnapshotDate: "2026-03-10",
	}
	require.NoError(t, repo.StatisticsRepository.Record(ctx, snap))

	// Running the job again on the same day replaces the row.
	snap.DueWords = 2
	require.NoError(t, repo.StatisticsRepository.Record(ctx, snap))

	snap.SnapshotDate = "2026-03-11"
	snap.DueWords = 7
	require.NoError(t, repo.StatisticsRepository.Record(ctx, snap))

	got, err := repo.History(ctx, "en", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-11", got[0].SnapshotDate)
	assert.Equal(t, 7, got[0].DueWords)
	assert.Equal(t, "2026-03-10", got[1].SnapshotDate)
	assert.Equal(t, 2, got[1].DueWords)
}
