package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/loidinhm31/cham-lang-sub002/internal/practice"
	"github.com/loidinhm31/cham-lang-sub002/internal/spaced_repetition"
	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
	"github.com/loidinhm31/cham-lang-sub002/pkg/validator"
)

type createSessionRequest struct {
	CollectionID  int64               `json:"collection_id" validate:"required"`
	Language      string              `json:"language" validate:"required"`
	Mode          models.PracticeMode `json:"mode" validate:"required"`
	TrackProgress bool                `json:"track_progress"`
	// FreeStudy disables the per-mode cycle filter during selection;
	// pair it with track_progress=false for a pure study run.
	FreeStudy  bool `json:"free_study"`
	IncludeDue bool `json:"include_due"`
	IncludeNew bool `json:"include_new"`
	MaxWords   int  `json:"max_words"`
	Shuffle    bool `json:"shuffle"`
}

type createSessionResponse struct {
	SessionID string  `json:"session_id"`
	WordCount int     `json:"word_count"`
	Complete  bool    `json:"complete"`
	Progress  float64 `json:"progress_percentage"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := r.Context()
	settings, err := s.stores.Settings.GetOrCreate(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	vocab, err := s.stores.Vocabulary.GetByCollection(ctx, req.CollectionID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load vocabulary", err)
		return
	}
	progress, err := s.stores.Progress.GetByLanguage(ctx, req.Language)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load progress", err)
		return
	}

	opts := practice.SelectionOptions{
		IncludeDue: req.IncludeDue,
		IncludeNew: req.IncludeNew,
		MaxWords:   req.MaxWords,
		Shuffle:    req.Shuffle,
	}
	if !req.FreeStudy {
		opts.Mode = req.Mode
	}
	words := practice.SelectWordsForPractice(vocab, progress, settings, opts)

	sess, err := practice.NewSession(words, progress, settings, req.Mode,
		req.CollectionID, req.Language, req.TrackProgress)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, spaced_repetition.ErrUnknownAlgorithm) ||
			errors.Is(err, spaced_repetition.ErrUnsupportedBoxCount) {
			// Broken stored settings, not a bad request.
			status = http.StatusInternalServerError
		}
		s.respondError(w, status, "failed to create session", err)
		return
	}
	s.registry.add(sess, vocab)

	s.log.Info("practice session created",
		zap.String("session_id", sess.ID().String()),
		zap.String("language", req.Language),
		zap.String("mode", string(req.Mode)),
		zap.Int("words", sess.WordCount()),
		zap.Bool("track_progress", req.TrackProgress),
	)
	s.respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID().String(),
		WordCount: sess.WordCount(),
		Complete:  sess.IsComplete(),
		Progress:  sess.ProgressPercentage(),
	})
}

type nextWordResponse struct {
	Done     bool               `json:"done"`
	Question *practice.Question `json:"question,omitempty"`
	Progress float64            `json:"progress_percentage"`
}

func (s *Server) nextWord(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeFromRequest(w, r)
	if !ok {
		return
	}
	word, ok := active.session.NextWord()
	if !ok {
		s.respondJSON(w, http.StatusOK, nextWordResponse{
			Done:     true,
			Progress: active.session.ProgressPercentage(),
		})
		return
	}
	q := practice.BuildQuestion(word, active.pool, active.session.Mode(), nil)
	s.respondJSON(w, http.StatusOK, nextWordResponse{
		Question: &q,
		Progress: active.session.ProgressPercentage(),
	})
}

type answerRequest struct {
	VocabularyID     int64 `json:"vocabulary_id" validate:"required"`
	Correct          bool  `json:"correct"`
	TimeSpentSeconds int   `json:"time_spent_seconds" validate:"min=0"`
}

type answerResponse struct {
	Status     practice.WordStatus         `json:"status"`
	Repetition practice.RepetitionProgress `json:"repetition"`
	Complete   bool                        `json:"complete"`
	Progress   float64                     `json:"progress_percentage"`
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeFromRequest(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var err error
	if req.Correct {
		err = active.session.HandleCorrectAnswer(req.VocabularyID, req.TimeSpentSeconds)
	} else {
		err = active.session.HandleIncorrectAnswer(req.VocabularyID, req.TimeSpentSeconds)
	}
	if err != nil {
		s.respondError(w, http.StatusConflict, "answer rejected", err)
		return
	}

	status, err := active.session.WordStatus(req.VocabularyID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read word status", err)
		return
	}
	rep, err := active.session.WordRepetitionProgress(req.VocabularyID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read repetition progress", err)
		return
	}
	s.respondJSON(w, http.StatusOK, answerResponse{
		Status:     status,
		Repetition: rep,
		Complete:   active.session.IsComplete(),
		Progress:   active.session.ProgressPercentage(),
	})
}

func (s *Server) sessionStatistics(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeFromRequest(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, active.session.Statistics())
}

type completeSessionResponse struct {
	Statistics models.SessionStatistics `json:"statistics"`
	Results    []models.SessionAnswer   `json:"results"`
	Persisted  bool                     `json:"persisted"`
}

// completeSession finishes a session: persists the mutated progress and
// a summary when the session tracks progress, and always returns the
// computed results. On a persistence failure the session stays
// registered so completion can be retried.
func (s *Server) completeSession(w http.ResponseWriter, r *http.Request) {
	active, ok := s.activeFromRequest(w, r)
	if !ok {
		return
	}
	sess := active.session
	ctx := r.Context()

	persisted := false
	if sess.TracksProgress() {
		for _, p := range sess.UpdatedProgress() {
			p := p
			if err := s.stores.Progress.Upsert(ctx, &p); err != nil {
				s.respondError(w, http.StatusInternalServerError, "failed to persist progress", err)
				return
			}
		}
		if err := s.stores.Sessions.Create(ctx, sess.Summary()); err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to persist session summary", err)
			return
		}
		persisted = true
	}
	s.registry.remove(sess.ID())

	s.log.Info("practice session completed",
		zap.String("session_id", sess.ID().String()),
		zap.Bool("persisted", persisted),
	)
	s.respondJSON(w, http.StatusOK, completeSessionResponse{
		Statistics: sess.Statistics(),
		Results:    sess.Results(),
		Persisted:  persisted,
	})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.stores.Settings.GetOrCreate(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.LearningSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := validator.ValidateStruct(settings); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := s.stores.Settings.Update(r.Context(), settings); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to update settings", err)
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

func (s *Server) listWords(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid collection id", err)
		return
	}
	words, err := s.stores.Vocabulary.GetByCollection(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load vocabulary", err)
		return
	}
	s.respondJSON(w, http.StatusOK, words)
}

// activeFromRequest resolves the {id} path variable to a registered
// session, writing the error response itself when it can't.
func (s *Server) activeFromRequest(w http.ResponseWriter, r *http.Request) (*activeSession, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid session id", err)
		return nil, false
	}
	active, ok := s.registry.get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found", nil)
		return nil, false
	}
	return active, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		s.log.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	s.respondJSON(w, status, map[string]string{"error": msg})
}
