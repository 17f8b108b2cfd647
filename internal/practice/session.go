package practice

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/loidinhm31/cham-lang-sub002/internal/spaced_repetition"
	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// Sentinel errors for session misuse.
var (
	ErrInvalidMode      = errors.New("practice: invalid practice mode")
	ErrWordNotInSession = errors.New("practice: word is not the current question")
	ErrSessionComplete  = errors.New("practice: session already complete")
)

// maxRequeuesPerWord bounds how many times a failed word is re-queued
// within one session, so a session always terminates even when every
// answer is wrong.
const maxRequeuesPerWord = 2

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle State = iota + 1
	StateInProgress
	StateComplete
)

// Session runs one practice session over a pre-selected word list. It
// owns value copies of the progress records it mutates; nothing is
// shared with the persisted store until the caller writes
// UpdatedProgress out.
type Session struct {
	id            uuid.UUID
	words         map[int64]models.Vocabulary
	queue         []int64
	pos           int
	current       int64 // Vocabulary id last dealt and not yet answered; 0 when none.
	progress      map[int64]models.WordProgress
	touched       map[int64]bool
	advanced      map[int64]bool
	requeues      map[int64]int
	settings      models.LearningSettings
	algo          spaced_repetition.Algorithm
	mode          models.PracticeMode
	collectionID  int64
	language      string
	trackProgress bool
	results       []models.SessionAnswer
	state         State
	startedAt     time.Time
	firstAnswerAt time.Time
	lastAnswerAt  time.Time

	now func() time.Time
}

// NewSession constructs a session over words already chosen by
// SelectWordsForPractice. The progress slice carries the words' current
// scheduling state; words without a record are initialized on their
// first answer. Construction fails on an unrecognized algorithm, an
// unsupported box count, or an invalid mode.
func NewSession(
	words []models.Vocabulary,
	progress []models.WordProgress,
	settings models.LearningSettings,
	mode models.PracticeMode,
	collectionID int64,
	language string,
	trackProgress bool,
) (*Session, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	algo, err := spaced_repetition.ForSettings(settings)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:            uuid.New(),
		words:         make(map[int64]models.Vocabulary, len(words)),
		queue:         make([]int64, 0, len(words)),
		progress:      make(map[int64]models.WordProgress, len(progress)),
		touched:       make(map[int64]bool),
		advanced:      make(map[int64]bool),
		requeues:      make(map[int64]int),
		settings:      settings,
		algo:          algo,
		mode:          mode,
		collectionID:  collectionID,
		language:      language,
		trackProgress: trackProgress,
		state:         StateIdle,
		startedAt:     time.Now(),
		now:           time.Now,
	}
	for _, w := range words {
		s.words[w.ID] = w
		s.queue = append(s.queue, w.ID)
	}
	for _, p := range progress {
		if _, ok := s.words[p.VocabularyID]; ok {
			s.progress[p.VocabularyID] = p.Clone()
		}
	}
	if len(s.queue) == 0 {
		s.state = StateComplete
	}
	return s, nil
}

// ID is the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Mode is the practice mode this session runs in.
func (s *Session) Mode() models.PracticeMode { return s.mode }

// Language is the vocabulary language this session practices.
func (s *Session) Language() string { return s.language }

// CollectionID is the collection the words were selected from.
func (s *Session) CollectionID() int64 { return s.collectionID }

// TracksProgress reports whether the caller should persist the updated
// progress. A study run computes it for display only.
func (s *Session) TracksProgress() bool { return s.trackProgress }

// WordCount is the current queue length, including re-queued repeats.
func (s *Session) WordCount() int { return len(s.queue) }

// NextWord returns the next word to present and advances the queue
// pointer. The second return is false once the queue, including
// re-queued repeats, is exhausted; the session is then complete.
func (s *Session) NextWord() (models.Vocabulary, bool) {
	if s.pos >= len(s.queue) {
		s.state = StateComplete
		return models.Vocabulary{}, false
	}
	id := s.queue[s.pos]
	s.pos++
	s.current = id
	s.state = StateInProgress
	return s.words[id], true
}

// HandleCorrectAnswer records a correct answer for the current word.
func (s *Session) HandleCorrectAnswer(vocabularyID int64, timeSpentSeconds int) error {
	return s.handleAnswer(vocabularyID, true, timeSpentSeconds)
}

// HandleIncorrectAnswer records an incorrect answer for the current
// word and, when configured, re-queues it at the end of the session.
func (s *Session) HandleIncorrectAnswer(vocabularyID int64, timeSpentSeconds int) error {
	return s.handleAnswer(vocabularyID, false, timeSpentSeconds)
}

func (s *Session) handleAnswer(vocabularyID int64, correct bool, timeSpentSeconds int) error {
	if s.state == StateComplete {
		return ErrSessionComplete
	}
	// Only the word most recently dealt by NextWord may be answered;
	// anything else is caller misuse and leaves the session untouched.
	if s.current == 0 || vocabularyID != s.current {
		return fmt.Errorf("%w: %d", ErrWordNotInSession, vocabularyID)
	}

	now := s.now()
	p, ok := s.progress[vocabularyID]
	if !ok {
		p = models.NewWordProgress(s.words[vocabularyID], now)
	}
	p.CompletedModesInCycle = p.CompletedModesInCycle.Add(s.mode)

	updated, transitioned := s.algo.Apply(p, correct, now)
	s.progress[vocabularyID] = updated
	s.touched[vocabularyID] = true
	if transitioned {
		s.advanced[vocabularyID] = true
	}

	s.results = append(s.results, models.SessionAnswer{
		VocabularyID:     vocabularyID,
		Correct:          correct,
		TimeSpentSeconds: timeSpentSeconds,
		AnsweredAt:       now,
	})
	if s.firstAnswerAt.IsZero() {
		s.firstAnswerAt = now
	}
	s.lastAnswerAt = now
	s.current = 0

	if !correct && s.settings.RequeueFailedWords && s.requeues[vocabularyID] < maxRequeuesPerWord {
		s.requeues[vocabularyID]++
		s.queue = append(s.queue, vocabularyID)
	}
	return nil
}

// IsComplete reports whether the queue pointer has exhausted all words,
// re-queued repeats included.
func (s *Session) IsComplete() bool {
	return s.pos >= len(s.queue)
}

// Statistics derives the aggregate numbers for the session so far.
func (s *Session) Statistics() models.SessionStatistics {
	stats := models.SessionStatistics{TotalQuestions: len(s.results)}
	distinct := make(map[int64]bool)
	for _, r := range s.results {
		if r.Correct {
			stats.CorrectAnswers++
		} else {
			stats.IncorrectAnswers++
		}
		distinct[r.VocabularyID] = true
	}
	stats.DistinctWords = len(distinct)
	if stats.TotalQuestions > 0 {
		stats.Accuracy = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
		stats.DurationSeconds = int(s.lastAnswerAt.Sub(s.firstAnswerAt).Seconds())
	}
	return stats
}

// Results returns the answer log in presentation order.
func (s *Session) Results() []models.SessionAnswer {
	out := make([]models.SessionAnswer, len(s.results))
	copy(out, s.results)
	return out
}

// UpdatedProgress returns copies of every progress record mutated in
// this session. Callers decide whether to persist them: a study run
// must discard the copies, and a failed write can simply be retried
// with the same records.
func (s *Session) UpdatedProgress() []models.WordProgress {
	out := make([]models.WordProgress, 0, len(s.touched))
	for _, id := range s.queueOrderTouched() {
		out = append(out, s.progress[id].Clone())
	}
	return out
}

// queueOrderTouched lists touched ids in first-presentation order so
// UpdatedProgress output is deterministic.
func (s *Session) queueOrderTouched() []int64 {
	seen := make(map[int64]bool, len(s.touched))
	out := make([]int64, 0, len(s.touched))
	for _, id := range s.queue {
		if s.touched[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ProgressPercentage is the share of the queue answered so far,
// counting re-queued repeats, in [0, 100].
func (s *Session) ProgressPercentage() float64 {
	if len(s.queue) == 0 {
		return 100
	}
	return float64(len(s.results)) / float64(len(s.queue)) * 100
}

// WordStatus is the display state of one word inside a session.
type WordStatus struct {
	VocabularyID        int64     `json:"vocabulary_id"`
	Seen                bool      `json:"seen"` // Has a progress record
	Box                 int       `json:"box"`
	Streak              int       `json:"streak"`
	IntervalDays        int       `json:"interval_days"`
	NextReviewAt        time.Time `json:"next_review_at"`
	AdvancedThisSession bool      `json:"advanced_this_session"`
}

// WordStatus reports the current scheduling state of a word in this
// session's queue.
func (s *Session) WordStatus(vocabularyID int64) (WordStatus, error) {
	if _, ok := s.words[vocabularyID]; !ok {
		return WordStatus{}, fmt.Errorf("%w: %d", ErrWordNotInSession, vocabularyID)
	}
	st := WordStatus{VocabularyID: vocabularyID, Box: 1, IntervalDays: 1}
	if p, ok := s.progress[vocabularyID]; ok {
		st.Seen = true
		st.Box = spaced_repetition.ClampBox(p.BoxNumber, s.settings.BoxCount)
		st.Streak = p.Streak
		st.IntervalDays = p.IntervalDays
		st.NextReviewAt = p.NextReviewAt
		st.AdvancedThisSession = s.advanced[vocabularyID]
	}
	return st, nil
}

// RepetitionProgress shows how far a word is through its current cycle.
type RepetitionProgress struct {
	VocabularyID   int64          `json:"vocabulary_id"`
	CompletedModes models.ModeSet `json:"completed_modes"`
	RemainingModes int            `json:"remaining_modes"`
	Streak         int            `json:"streak"`
	Threshold      int            `json:"threshold"`
}

// WordRepetitionProgress reports mode-cycle and streak progress toward
// the next box for a word in this session's queue.
func (s *Session) WordRepetitionProgress(vocabularyID int64) (RepetitionProgress, error) {
	if _, ok := s.words[vocabularyID]; !ok {
		return RepetitionProgress{}, fmt.Errorf("%w: %d", ErrWordNotInSession, vocabularyID)
	}
	rp := RepetitionProgress{
		VocabularyID:   vocabularyID,
		RemainingModes: len(models.AllPracticeModes),
		Threshold:      s.settings.AdvanceThreshold,
	}
	if p, ok := s.progress[vocabularyID]; ok {
		rp.CompletedModes = p.CompletedModesInCycle
		rp.RemainingModes = len(models.AllPracticeModes) - len(p.CompletedModesInCycle)
		rp.Streak = p.Streak
	}
	return rp, nil
}

// Summary builds the persistable record for a finished session.
func (s *Session) Summary() models.SessionSummary {
	stats := s.Statistics()
	finished := s.lastAnswerAt
	if finished.IsZero() {
		finished = s.startedAt
	}
	return models.SessionSummary{
		ID:               s.id.String(),
		CollectionID:     s.collectionID,
		Language:         s.language,
		Mode:             s.mode,
		TotalQuestions:   stats.TotalQuestions,
		CorrectAnswers:   stats.CorrectAnswers,
		IncorrectAnswers: stats.IncorrectAnswers,
		DistinctWords:    stats.DistinctWords,
		DurationSeconds:  stats.DurationSeconds,
		TrackProgress:    s.trackProgress,
		StartedAt:        s.startedAt,
		FinishedAt:       finished,
	}
}
