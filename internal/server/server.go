// Package server exposes the practice engine over HTTP. It is a thin
// boundary: the presentation layer drives sessions through it, and all
// scheduling decisions stay in the practice and spaced_repetition
// packages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/loidinhm31/cham-lang-sub002/internal/config"
	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// VocabularyStore lists the words sessions are built from.
type VocabularyStore interface {
	GetByCollection(ctx context.Context, collectionID int64) ([]models.Vocabulary, error)
}

// ProgressStore reads and writes per-word learning state.
type ProgressStore interface {
	GetByLanguage(ctx context.Context, language string) ([]models.WordProgress, error)
	Upsert(ctx context.Context, p *models.WordProgress) error
}

// SettingsStore owns the learning settings.
type SettingsStore interface {
	GetOrCreate(ctx context.Context) (models.LearningSettings, error)
	Update(ctx context.Context, s models.LearningSettings) error
}

// SessionStore persists summaries of finished sessions.
type SessionStore interface {
	Create(ctx context.Context, s models.SessionSummary) error
}

// Stores bundles everything the handlers need from persistence.
type Stores struct {
	Vocabulary VocabularyStore
	Progress   ProgressStore
	Settings   SettingsStore
	Sessions   SessionStore
}

// Server is the HTTP front of the practice engine.
type Server struct {
	log      *zap.Logger
	stores   Stores
	registry *sessionRegistry
	http     *http.Server
}

// New wires the router and returns a server ready to run.
func New(cfg config.HTTPConfig, stores Stores, log *zap.Logger) *Server {
	s := &Server{
		log:      log,
		stores:   stores,
		registry: newSessionRegistry(),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/practice/sessions", s.createSession).Methods(http.MethodPost)
	api.HandleFunc("/practice/sessions/{id}/next", s.nextWord).Methods(http.MethodGet)
	api.HandleFunc("/practice/sessions/{id}/answers", s.submitAnswer).Methods(http.MethodPost)
	api.HandleFunc("/practice/sessions/{id}/statistics", s.sessionStatistics).Methods(http.MethodGet)
	api.HandleFunc("/practice/sessions/{id}/complete", s.completeSession).Methods(http.MethodPost)
	api.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.updateSettings).Methods(http.MethodPut)
	api.HandleFunc("/collections/{id}/words", s.listWords).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      c.Handler(r),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("http server starting", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests. Active sessions are in-memory
// only and are discarded, matching the abandon semantics: nothing is
// persisted unless a session was explicitly completed.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
