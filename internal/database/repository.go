// Package database holds the sqlx repositories behind the engine's
// external persistence interfaces. The schema is bootstrapped in
// sqlite dialect; placeholders use $N, which both drivers accept.
package database

import (
	"context"
	"database/sql"
)

// QueryI is the slice of sqlx.DB the repositories need. Tests satisfy
// it with an in-memory database.
type QueryI interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Repository bundles all repositories over one connection.
type Repository struct {
	*VocabularyRepository
	*ProgressRepository
	*SettingsRepository
	*SessionRepository
	*StatisticsRepository
}

// NewRepository builds the repository bundle.
func NewRepository(db QueryI) Repository {
	return Repository{
		VocabularyRepository: NewVocabularyRepository(db),
		ProgressRepository:   NewProgressRepository(db),
		SettingsRepository:   NewSettingsRepository(db),
		SessionRepository:    NewSessionRepository(db),
		StatisticsRepository: NewStatisticsRepository(db),
	}
}
