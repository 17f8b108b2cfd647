package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/loidinhm31/cham-lang-sub002/internal/practice"
	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// activeSession keeps a running session together with the vocabulary
// pool its multiple-choice distractors are drawn from.
type activeSession struct {
	session *practice.Session
	pool    []models.Vocabulary
}

// sessionRegistry holds the in-memory sessions. Only one session per
// (language, mode) may be active at a time; registering a new one
// silently discards the uncommitted predecessor.
type sessionRegistry struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*activeSession
	byScope map[string]uuid.UUID
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		byID:    make(map[uuid.UUID]*activeSession),
		byScope: make(map[string]uuid.UUID),
	}
}

func scopeKey(language string, mode models.PracticeMode) string {
	return language + "/" + string(mode)
}

func (r *sessionRegistry) add(s *practice.Session, pool []models.Vocabulary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope := scopeKey(s.Language(), s.Mode())
	if prev, ok := r.byScope[scope]; ok {
		delete(r.byID, prev)
	}
	r.byID[s.ID()] = &activeSession{session: s, pool: pool}
	r.byScope[scope] = s.ID()
}

func (r *sessionRegistry) get(id uuid.UUID) (*activeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	return a, ok
}

func (r *sessionRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	scope := scopeKey(a.session.Language(), a.session.Mode())
	if r.byScope[scope] == id {
		delete(r.byScope, scope)
	}
}
