package spaced_repetition

import (
	"fmt"
	"time"
)

// Preset review intervals in days, one table per supported box count.
// Each table is strictly increasing; index 0 is box 1.
var boxPresets = map[int][]int{
	3: {1, 3, 7},
	5: {1, 3, 7, 14, 30},
	7: {1, 3, 7, 14, 30, 60, 120},
}

// SupportedBoxCounts returns the box counts the preset tables cover.
func SupportedBoxCounts() []int {
	return []int{3, 5, 7}
}

// IsSupportedBoxCount reports whether a preset table exists for n boxes.
func IsSupportedBoxCount(n int) bool {
	_, ok := boxPresets[n]
	return ok
}

// IntervalForBox returns the preset review interval in days for the
// given box under the given box count.
func IntervalForBox(box, boxCount int) (int, error) {
	presets, ok := boxPresets[boxCount]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBoxCount, boxCount)
	}
	if box < 1 || box > boxCount {
		return 0, fmt.Errorf("%w: box %d with %d boxes", ErrBoxOutOfRange, box, boxCount)
	}
	return presets[box-1], nil
}

// ClampBox forces a box number into [1, boxCount]. Existing progress is
// never rewritten when the configured box count shrinks; stored numbers
// above the new count are clamped here on read.
func ClampBox(box, boxCount int) int {
	if box < 1 {
		return 1
	}
	if box > boxCount {
		return boxCount
	}
	return box
}

// NextReviewAt converts a box number into the next review date under
// the given box count. The box is clamped before lookup.
func NextReviewAt(box, boxCount int, now time.Time) (time.Time, error) {
	days, err := IntervalForBox(ClampBox(box, boxCount), boxCount)
	if err != nil {
		return time.Time{}, err
	}
	return now.AddDate(0, 0, days), nil
}
