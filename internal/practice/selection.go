// Package practice builds and runs practice sessions: it selects the
// words to show, walks the session queue, applies the configured
// scheduling algorithm to every answer, and reports the results.
package practice

import (
	"math/rand"
	"sort"
	"time"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// SelectionOptions controls which words a session is built from.
type SelectionOptions struct {
	IncludeDue bool
	IncludeNew bool
	// MaxWords truncates the final list; zero or negative means no cap.
	MaxWords int
	// Shuffle randomizes presentation order after truncation, so due
	// priority still decides which words make the cut.
	Shuffle bool
	// Mode filters out words that already completed this mode in the
	// current cycle. Empty means free study: no mode filtering at all.
	Mode models.PracticeMode
	// Now anchors due checks and the daily new-word window; zero means
	// time.Now().
	Now time.Time
	// Rand drives shuffling; nil falls back to a time-seeded source.
	Rand *rand.Rand
}

// SelectWordsForPractice builds the ordered candidate list for one
// session. Due words come first, most overdue first, bounded by what
// remains of the daily review cap after earlier sessions today; new
// words follow in their original order, capped by the remaining daily
// allowance. Words that are tracked but not yet due are never selected.
func SelectWordsForPractice(
	vocab []models.Vocabulary,
	progress []models.WordProgress,
	settings models.LearningSettings,
	opts SelectionOptions,
) []models.Vocabulary {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	byVocab := make(map[int64]models.WordProgress, len(progress))
	for _, p := range progress {
		byVocab[p.VocabularyID] = p
	}

	type dueWord struct {
		word models.Vocabulary
		at   time.Time
	}
	var due []dueWord
	var fresh []models.Vocabulary

	for _, w := range vocab {
		p, tracked := byVocab[w.ID]
		if tracked {
			if !opts.IncludeDue || !p.IsDue(now) {
				continue
			}
			if opts.Mode != "" && p.CompletedModesInCycle.Contains(opts.Mode) {
				// Already answered in this mode during the current
				// cycle; not shown again until the box advances.
				continue
			}
			due = append(due, dueWord{word: w, at: p.NextReviewAt})
		} else if opts.IncludeNew {
			fresh = append(fresh, w)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].at.Before(due[j].at)
	})

	// Creation of a progress record marks first exposure, so records
	// created today are the new words already introduced; records
	// created earlier but updated today were reviewed today and have
	// already spent part of the daily review cap.
	introducedToday := 0
	reviewedToday := 0
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, p := range progress {
		if !p.CreatedAt.Before(dayStart) {
			introducedToday++
		} else if !p.UpdatedAt.Before(dayStart) {
			reviewedToday++
		}
	}

	if limit := settings.DailyReviewCap; limit > 0 {
		limit -= reviewedToday
		if limit < 0 {
			limit = 0
		}
		if len(due) > limit {
			due = due[:limit]
		}
	}
	allowance := settings.NewWordsPerDay - introducedToday
	if allowance < 0 {
		allowance = 0
	}
	if len(fresh) > allowance {
		fresh = fresh[:allowance]
	}

	out := make([]models.Vocabulary, 0, len(due)+len(fresh))
	for _, d := range due {
		out = append(out, d.word)
	}
	out = append(out, fresh...)

	if opts.MaxWords > 0 && len(out) > opts.MaxWords {
		out = out[:opts.MaxWords]
	}

	if opts.Shuffle {
		rnd := opts.Rand
		if rnd == nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		rnd.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}

	return out
}
