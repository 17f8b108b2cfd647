package models

import "strings"

// PracticeMode represents one of the formats a word can be practiced in.
type PracticeMode string

const (
	// ModeFlashcard shows the word and asks for the translation from memory.
	ModeFlashcard PracticeMode = "flashcard"
	// ModeFillWord asks the user to fill the word into a blanked sentence.
	ModeFillWord PracticeMode = "fill_word"
	// ModeMultipleChoice asks the user to pick the definition from options.
	ModeMultipleChoice PracticeMode = "multiple_choice"
)

// AllPracticeModes lists every mode a word must pass within one cycle
// before its box may advance.
var AllPracticeModes = []PracticeMode{ModeFlashcard, ModeFillWord, ModeMultipleChoice}

// IsValid reports whether m is one of the three supported modes.
func (m PracticeMode) IsValid() bool {
	switch m {
	case ModeFlashcard, ModeFillWord, ModeMultipleChoice:
		return true
	}
	return false
}

func (m PracticeMode) String() string {
	return string(m)
}

// ModeSet is the set of practice modes a word has completed in the
// current cycle. Methods never mutate the receiver; they return a new
// set, so value copies of WordProgress stay independent.
type ModeSet []PracticeMode

// Contains reports whether the mode is in the set.
func (s ModeSet) Contains(m PracticeMode) bool {
	for _, v := range s {
		if v == m {
			return true
		}
	}
	return false
}

// Add returns a set that includes m. The receiver is unchanged.
func (s ModeSet) Add(m PracticeMode) ModeSet {
	if s.Contains(m) {
		return s.clone()
	}
	out := make(ModeSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, m)
}

// IsComplete reports whether all practice modes have been completed.
func (s ModeSet) IsComplete() bool {
	for _, m := range AllPracticeModes {
		if !s.Contains(m) {
			return false
		}
	}
	return true
}

func (s ModeSet) clone() ModeSet {
	if s == nil {
		return nil
	}
	out := make(ModeSet, len(s))
	copy(out, s)
	return out
}

// Encode serializes the set to a comma-separated string for storage.
func (s ModeSet) Encode() string {
	parts := make([]string, len(s))
	for i, m := range s {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

// DecodeModeSet parses a comma-separated mode list. Unknown names are
// dropped rather than failing, so a schema change never wedges a row.
func DecodeModeSet(raw string) ModeSet {
	if raw == "" {
		return nil
	}
	var out ModeSet
	for _, part := range strings.Split(raw, ",") {
		m := PracticeMode(strings.TrimSpace(part))
		if m.IsValid() && !out.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}
