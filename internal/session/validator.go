package session

import "strconv"

// Validate reports whether text is a rank between 1 and n inclusive.
// Only plain decimal digits are accepted.
func Validate(text string, n int) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return false
	}
	return v >= 1 && v <= n
}

// Sweep clears every focused field holding invalid text and returns how many
// were cleared. Unfocused fields are left alone even when stale.
func Sweep(b *Board) int {
	cleared := 0
	for _, e := range b.entries {
		if e.Field.HasFocus() && !Validate(e.Field.Text(), b.MaxRank()) {
			if e.Field.Text() != "" {
				cleared++
			}
			e.Field.Clear()
		}
	}
	return cleared
}
