package cli

import (
	"github.com/yildizm/RankGrid/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// completionBar draws the share of ranked stimuli
func completionBar(filled, total int) string {
	ratio := 0.0
	if total > 0 {
		ratio = float64(filled) / float64(total)
	}
	return termfmt.CreateConfidenceBar(ratio, termfmt.DefaultOptions())
}
