package excel

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

type fakeUpserter struct {
	collections map[string]int64
	nextID      int64
	upserted    []models.Vocabulary
	upsertErr   map[string]error
}

func newFakeUpserter() *fakeUpserter {
	return &fakeUpserter{
		collections: make(map[string]int64),
		upsertErr:   make(map[string]error),
	}
}

func (f *fakeUpserter) EnsureCollection(_ context.Context, name, language string) (int64, error) {
	key := name + "/" + language
	if id, ok := f.collections[key]; ok {
		return id, nil
	}
	f.nextID++
	f.collections[key] = f.nextID
	return f.nextID, nil
}

func (f *fakeUpserter) Upsert(_ context.Context, v *models.Vocabulary) error {
	if err := f.upsertErr[v.Word]; err != nil {
		return err
	}
	f.upserted = append(f.upserted, *v)
	return nil
}

type fakeExampleSource struct {
	calls []string
	err   error
}

func (f *fakeExampleSource) ExampleSentence(_ context.Context, word, _, _ string) (string, error) {
	f.calls = append(f.calls, word)
	if f.err != nil {
		return "", f.err
	}
	return "Generated sentence with " + word + ".", nil
}

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportWords(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]string{
		{"Word", "Meaning", "Example", "Group"},
		{"apple", "a round fruit", "She ate an apple.", "food"},
		{"river", "a natural stream", "", "nature"},
		{"", "orphan meaning", "", ""},
		{"blank", "", "", ""},
	})

	repo := newFakeUpserter()
	result, err := ImportWords(context.Background(), repo, nil, DefaultImportConfig(path, "en"))
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Errors)

	require.Len(t, repo.upserted, 2)
	assert.Equal(t, "apple", repo.upserted[0].Word)
	assert.Equal(t, "She ate an apple.", repo.upserted[0].Example)
	assert.Equal(t, "river", repo.upserted[1].Word)
	assert.Equal(t, "en", repo.upserted[1].Language)

	// Two distinct groups became two collections.
	assert.Len(t, repo.collections, 2)
	assert.NotEqual(t, repo.upserted[0].CollectionID, repo.upserted[1].CollectionID)
}

func TestImportGeneratesMissingExamples(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]string{
		{"Word", "Meaning", "Example", "Group"},
		{"apple", "a round fruit", "She ate an apple.", ""},
		{"river", "a natural stream", "", ""},
	})

	repo := newFakeUpserter()
	gen := &fakeExampleSource{}
	result, err := ImportWords(context.Background(), repo, gen, DefaultImportConfig(path, "en"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	// Only the row without an example hits the generator.
	assert.Equal(t, []string{"river"}, gen.calls)
	require.Len(t, repo.upserted, 2)
	assert.Equal(t, "Generated sentence with river.", repo.upserted[1].Example)
}

func TestImportToleratesGenerationFailure(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]string{
		{"Word", "Meaning", "Example", "Group"},
		{"river", "a natural stream", "", ""},
	})

	repo := newFakeUpserter()
	gen := &fakeExampleSource{err: errors.New("api down")}
	result, err := ImportWords(context.Background(), repo, gen, DefaultImportConfig(path, "en"))
	require.NoError(t, err)

	// The word imports anyway, with an empty example and a logged error.
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "example generation failed")
	require.Len(t, repo.upserted, 1)
	assert.Empty(t, repo.upserted[0].Example)
}

func TestImportRecordsRowErrors(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]string{
		{"Word", "Meaning", "Example", "Group"},
		{"apple", "a round fruit", "x", ""},
		{"river", "a natural stream", "x", ""},
	})

	repo := newFakeUpserter()
	repo.upsertErr["apple"] = fmt.Errorf("constraint violated")

	result, err := ImportWords(context.Background(), repo, nil, DefaultImportConfig(path, "en"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 2")
}

func TestImportMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ImportWords(context.Background(), newFakeUpserter(), nil,
		DefaultImportConfig(filepath.Join(t.TempDir(), "missing.xlsx"), "en"))
	assert.Error(t, err)
}
