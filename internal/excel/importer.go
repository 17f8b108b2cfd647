// Package excel imports vocabulary from .xlsx workbooks, one word per
// row.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// VocabularyUpserter is the slice of the vocabulary repository the
// importer needs.
type VocabularyUpserter interface {
	EnsureCollection(ctx context.Context, name, language string) (int64, error)
	Upsert(ctx context.Context, v *models.Vocabulary) error
}

// ExampleSource fills in a missing example sentence. Optional.
type ExampleSource interface {
	ExampleSentence(ctx context.Context, word, definitions, language string) (string, error)
}

// ImportConfig defines where the importer reads from.
type ImportConfig struct {
	FilePath   string // Path to the .xlsx workbook
	SheetName  string // Sheet to read; defaults to "Sheet1"
	Language   string // Language stored on every imported word
	Collection string // Fallback collection when the row has none
	WordCol    int    // 0-based column of the word
	MeaningCol int    // 0-based column of the definitions
	ExampleCol int    // 0-based column of the example sentence
	GroupCol   int    // 0-based column of the collection name
	SkipHeader bool
}

// DefaultImportConfig returns the column layout the export template
// uses: word, definitions, example, collection.
func DefaultImportConfig(path, language string) ImportConfig {
	return ImportConfig{
		FilePath:   path,
		SheetName:  "Sheet1",
		Language:   language,
		Collection: "imported",
		WordCol:    0,
		MeaningCol: 1,
		ExampleCol: 2,
		GroupCol:   3,
		SkipHeader: true,
	}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportWords reads the workbook and upserts every valid row. When gen
// is non-nil, rows without an example sentence get one generated.
func ImportWords(ctx context.Context, repo VocabularyUpserter, gen ExampleSource, cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", cfg.SheetName, err)
	}

	result := &ImportResult{}
	collections := make(map[string]int64)

	for i, row := range rows {
		if cfg.SkipHeader && i == 0 {
			continue
		}
		result.TotalProcessed++

		word := cell(row, cfg.WordCol)
		meaning := cell(row, cfg.MeaningCol)
		if word == "" || meaning == "" {
			result.Skipped++
			continue
		}

		group := cell(row, cfg.GroupCol)
		if group == "" {
			group = cfg.Collection
		}
		collectionID, ok := collections[group]
		if !ok {
			collectionID, err = repo.EnsureCollection(ctx, group, cfg.Language)
			if err != nil {
				return result, fmt.Errorf("failed to ensure collection %q: %w", group, err)
			}
			collections[group] = collectionID
		}

		example := cell(row, cfg.ExampleCol)
		if example == "" && gen != nil {
			example, err = gen.ExampleSentence(ctx, word, meaning, cfg.Language)
			if err != nil {
				// Import anyway; fill-word falls back to a stock sentence.
				result.Errors = append(result.Errors,
					fmt.Sprintf("row %d: example generation failed: %v", i+1, err))
				example = ""
			}
		}

		v := models.Vocabulary{
			CollectionID: collectionID,
			Word:         word,
			Definitions:  meaning,
			Example:      example,
			Language:     cfg.Language,
		}
		if err := repo.Upsert(ctx, &v); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			result.Skipped++
			continue
		}
		result.Imported++
	}

	return result, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
