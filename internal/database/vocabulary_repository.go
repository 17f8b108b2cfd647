package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// VocabularyRepository handles collections and their word entries.
type VocabularyRepository struct {
	db QueryI
}

func NewVocabularyRepository(db QueryI) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// EnsureCollection returns the id of the named collection, creating it
// when it doesn't exist yet.
func (r *VocabularyRepository) EnsureCollection(ctx context.Context, name, language string) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id,
		"SELECT id FROM collections WHERE name = $1 AND language = $2", name, language)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up collection: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO collections (name, language) VALUES ($1, $2)", name, language); err != nil {
		return 0, fmt.Errorf("failed to create collection: %w", err)
	}
	if err := r.db.GetContext(ctx, &id,
		"SELECT id FROM collections WHERE name = $1 AND language = $2", name, language); err != nil {
		return 0, fmt.Errorf("failed to read back collection: %w", err)
	}
	return id, nil
}

// GetByCollection returns every word in a collection in insertion order.
func (r *VocabularyRepository) GetByCollection(ctx context.Context, collectionID int64) ([]models.Vocabulary, error) {
	var words []models.Vocabulary
	err := r.db.SelectContext(ctx, &words, `
		SELECT id, collection_id, word, definitions, example, language, created_at, updated_at
		FROM vocabulary
		WHERE collection_id = $1
		ORDER BY id
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	return words, nil
}

// GetByLanguage returns every word for a language across collections.
func (r *VocabularyRepository) GetByLanguage(ctx context.Context, language string) ([]models.Vocabulary, error) {
	var words []models.Vocabulary
	err := r.db.SelectContext(ctx, &words, `
		SELECT id, collection_id, word, definitions, example, language, created_at, updated_at
		FROM vocabulary
		WHERE language = $1
		ORDER BY id
	`, language)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	return words, nil
}

// Upsert inserts a word or refreshes its definitions and example when
// the (collection, word) pair already exists.
func (r *VocabularyRepository) Upsert(ctx context.Context, v *models.Vocabulary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vocabulary (collection_id, word, definitions, example, language)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection_id, word) DO UPDATE SET
			definitions = EXCLUDED.definitions,
			example = EXCLUDED.example,
			updated_at = CURRENT_TIMESTAMP
	`, v.CollectionID, v.Word, v.Definitions, v.Example, v.Language)
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary %q: %w", v.Word, err)
	}
	return r.db.GetContext(ctx, &v.ID,
		"SELECT id FROM vocabulary WHERE collection_id = $1 AND word = $2", v.CollectionID, v.Word)
}
