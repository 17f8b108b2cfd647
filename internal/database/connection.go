package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/loidinhm31/cham-lang-sub002/internal/config"
)

// Connect opens the configured database and bootstraps the schema.
func Connect(cfg config.DBConfig) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Conn.Host, cfg.Conn.Port, cfg.Conn.User, cfg.Conn.Password, cfg.Conn.Name, cfg.Conn.SSL)
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Cfg.ConnMaxLifeTime)
		db.SetConnMaxIdleTime(cfg.Cfg.ConnMaxIdleTime)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	if err := InitSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// InitSchema creates the tables if they don't exist, rendering the DDL
// for the connected driver's dialect.
func InitSchema(db *sqlx.DB) error {
	for _, stmt := range schemaStatements(db.DriverName()) {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
	}
	return nil
}

type schemaStatement struct {
	name string
	sql  string
}

// schemaStatements renders the CREATE TABLE set for one driver. The
// only dialect difference is the auto-incrementing integer key: sqlite
// wants AUTOINCREMENT, postgres an identity column.
func schemaStatements(driver string) []schemaStatement {
	idKey := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		idKey = "BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	}
	return []schemaStatement{
		{"collections", `
			CREATE TABLE IF NOT EXISTS collections (
				id ` + idKey + `,
				name TEXT NOT NULL,
				language TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(name, language)
			)
		`},
		{"vocabulary", `
			CREATE TABLE IF NOT EXISTS vocabulary (
				id ` + idKey + `,
				collection_id INTEGER NOT NULL,
				word TEXT NOT NULL,
				definitions TEXT NOT NULL,
				example TEXT DEFAULT '',
				language TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (collection_id) REFERENCES collections(id),
				UNIQUE(collection_id, word)
			)
		`},
		{"word_progress", `
			CREATE TABLE IF NOT EXISTS word_progress (
				id ` + idKey + `,
				vocabulary_id INTEGER NOT NULL,
				word TEXT NOT NULL,
				language TEXT NOT NULL,
				box_number INTEGER DEFAULT 1,
				easiness_factor REAL DEFAULT 2.5,
				interval_days INTEGER DEFAULT 1,
				prev_interval_days INTEGER DEFAULT 0,
				streak INTEGER DEFAULT 0,
				total_reviews INTEGER DEFAULT 0,
				total_correct INTEGER DEFAULT 0,
				total_incorrect INTEGER DEFAULT 0,
				completed_modes TEXT DEFAULT '',
				next_review_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (vocabulary_id) REFERENCES vocabulary(id),
				UNIQUE(vocabulary_id, language)
			)
		`},
		{"learning_settings", `
			CREATE TABLE IF NOT EXISTS learning_settings (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				algorithm TEXT NOT NULL,
				box_count INTEGER NOT NULL,
				advance_threshold INTEGER NOT NULL,
				requeue_failed_words BOOLEAN DEFAULT true,
				demote_on_incorrect BOOLEAN DEFAULT true,
				new_words_per_day INTEGER DEFAULT 10,
				daily_review_cap INTEGER DEFAULT 50,
				auto_advance_seconds INTEGER DEFAULT 3,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
		{"practice_sessions", `
			CREATE TABLE IF NOT EXISTS practice_sessions (
				id TEXT PRIMARY KEY,
				collection_id INTEGER NOT NULL,
				language TEXT NOT NULL,
				mode TEXT NOT NULL,
				total_questions INTEGER DEFAULT 0,
				correct_answers INTEGER DEFAULT 0,
				incorrect_answers INTEGER DEFAULT 0,
				distinct_words INTEGER DEFAULT 0,
				duration_seconds INTEGER DEFAULT 0,
				track_progress BOOLEAN DEFAULT true,
				started_at TIMESTAMP NOT NULL,
				finished_at TIMESTAMP NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
		{"statistics_snapshots", `
			CREATE TABLE IF NOT EXISTS statistics_snapshots (
				id ` + idKey + `,
				language TEXT NOT NULL,
				total_words INTEGER DEFAULT 0,
				due_words INTEGER DEFAULT 0,
				mastered_words INTEGER DEFAULT 0,
				avg_easiness REAL DEFAULT 2.5,
				snapshot_date TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(language, snapshot_date)
			)
		`},
	}
}
