package practice

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/loidinhm31/cham-lang-sub002/pkg/models"
)

// distractorCount is how many wrong options a multiple-choice question
// carries alongside the correct one.
const distractorCount = 3

// Question is the mode-specific payload presented for one word. The
// engine owns its shape so the mode semantics and what gets shown stay
// in one place; rendering is the caller's business.
type Question struct {
	Vocabulary models.Vocabulary   `json:"vocabulary"`
	Mode       models.PracticeMode `json:"mode"`
	Prompt     string              `json:"prompt"`
	// Options and CorrectIndex are set for multiple choice only.
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correct_index"`
	// BlankedExample is set for fill-word only.
	BlankedExample string `json:"blanked_example,omitempty"`
}

// BuildQuestion assembles the question payload for a word in the given
// mode. The pool supplies multiple-choice distractors; rnd may be nil.
func BuildQuestion(w models.Vocabulary, pool []models.Vocabulary, mode models.PracticeMode, rnd *rand.Rand) Question {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	q := Question{Vocabulary: w, Mode: mode, Prompt: w.Word}

	switch mode {
	case models.ModeMultipleChoice:
		options := pickDistractors(w, pool, distractorCount, rnd)
		options = append(options, w.Definitions)
		correct := len(options) - 1
		rnd.Shuffle(len(options), func(i, j int) {
			if i == correct {
				correct = j
			} else if j == correct {
				correct = i
			}
			options[i], options[j] = options[j], options[i]
		})
		q.Options = options
		q.CorrectIndex = correct

	case models.ModeFillWord:
		example := w.Example
		if example == "" {
			example = "This is a sentence with the word " + w.Word + "."
		}
		q.BlankedExample = blankWord(example, w.Word)
		q.Prompt = w.Definitions
	}

	return q
}

// pickDistractors chooses up to count definitions from other words in
// the pool, shuffled, duplicates and the target word excluded.
func pickDistractors(w models.Vocabulary, pool []models.Vocabulary, count int, rnd *rand.Rand) []string {
	candidates := make([]string, 0, len(pool))
	seen := map[string]bool{w.Definitions: true}
	for _, other := range pool {
		if other.ID == w.ID || other.Definitions == "" || seen[other.Definitions] {
			continue
		}
		seen[other.Definitions] = true
		candidates = append(candidates, other.Definitions)
	}
	rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

// blankWord replaces the first case-insensitive occurrence of word in
// the sentence with underscores; if the word never appears the blank is
// appended. Matching is rune-wise: case pairs whose byte lengths differ
// must not shift the cut into the middle of a rune.
func blankWord(sentence, word string) string {
	const blank = "_______"
	start, end := foldIndex(sentence, word)
	if start < 0 {
		return sentence + " " + blank
	}
	return sentence[:start] + blank + sentence[end:]
}

// foldIndex returns the byte bounds in s of the first case-insensitive
// occurrence of word, or (-1, -1).
func foldIndex(s, word string) (int, int) {
	target := []rune(word)
	if len(target) == 0 {
		return -1, -1
	}
	runes := []rune(s)
	starts := make([]int, 0, len(runes)+1)
	for i := range s {
		starts = append(starts, i)
	}
	starts = append(starts, len(s))

	for i := 0; i+len(target) <= len(runes); i++ {
		match := true
		for j, r := range target {
			if unicode.ToLower(runes[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return starts[i], starts[i+len(target)]
		}
	}
	return -1, -1
}
