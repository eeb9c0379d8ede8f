package search

import (
	"strings"

	"github.com/siftlabs/docsift/internal/domain"
)

// Characters stripped from queries before they reach the engine. The set
// covers shell and query-DSL metacharacters.
const dangerousChars = "<>\"'&;()|`"

// SanitizeQuery strips dangerous characters, collapses the result to at most
// domain.MaxQueryLength runes, and trims surrounding whitespace.
func SanitizeQuery(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if strings.ContainsRune(dangerousChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()
	if runes := []rune(cleaned); len(runes) > domain.MaxQueryLength {
		cleaned = string(runes[:domain.MaxQueryLength])
	}
	return strings.TrimSpace(cleaned)
}
