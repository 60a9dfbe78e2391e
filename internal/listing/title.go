package listing

import (
	"strings"
)

const (
	// PlaceholderTitle names a chat before its first message arrives.
	PlaceholderTitle = "💭 Новый сон"

	titlePrefix    = "💭 "
	titleMaxWords  = 4
	titleMaxRunes  = 40
	shortTextRunes = 25
)

// GenerateTitle derives a chat title from its first message. The algorithm
// is shared with the backend: the client preview and the authoritative
// server value must come out identical for the same input.
func GenerateTitle(firstMessage string) string {
	trimmed := strings.TrimSpace(firstMessage)
	if trimmed == "" {
		return PlaceholderTitle
	}

	words := strings.Fields(trimmed)
	if len(words) == 0 {
		return PlaceholderTitle
	}
	collapsed := strings.Join(words, " ")
	collapsedRunes := []rune(collapsed)
	if len(collapsedRunes) > 100 {
		collapsed = string(collapsedRunes[:100])
		words = strings.Fields(collapsed)
	}

	used := words
	if len(used) > titleMaxWords {
		used = used[:titleMaxWords]
	}
	title := titlePrefix + strings.Join(used, " ")
	if len([]rune(collapsed)) > shortTextRunes || len(words) > titleMaxWords {
		title += "..."
	}

	if runes := []rune(title); len(runes) > titleMaxRunes {
		title = string(runes[:titleMaxRunes-3]) + "..."
	}
	return title
}
