package search

import (
	"unicode"
)

const (
	// DefaultExcerptLength is used when Excerpt is called with a non-positive length.
	DefaultExcerptLength = 150

	// Ellipsis marks text cut from either side of an excerpt.
	Ellipsis = "..."

	excerptLeadingContext  = 50
	excerptTrailingContext = 100
)

// Excerpt returns a window of content around the first case-insensitive
// occurrence of query: up to 50 characters before it and 100 after it.
// Without an occurrence, the first maxLength characters are returned.
// Ellipsis is added on each side where content was cut. Positions are counted
// in runes so multi-byte text is never split mid-character.
func Excerpt(content, query string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	runes := []rune(content)
	q := []rune(NormalizeQuery(query))

	idx := -1
	if len(q) > 0 {
		idx = indexFold(runes, q)
	}

	if idx < 0 {
		if len(runes) <= maxLength {
			return content
		}
		return string(runes[:maxLength]) + Ellipsis
	}

	start := max(0, idx-excerptLeadingContext)
	end := min(len(runes), idx+len(q)+excerptTrailingContext)

	excerpt := string(runes[start:end])
	if start > 0 {
		excerpt = Ellipsis + excerpt
	}
	if end < len(runes) {
		excerpt += Ellipsis
	}
	return excerpt
}

// indexFold returns the rune index of the first case-insensitive occurrence of
// needle in haystack, or -1. Runes are folded one-to-one so indexes line up
// with the original text.
func indexFold(haystack, needle []rune) int {
	if len(needle) > len(haystack) {
		return -1
	}
	lowerNeedle := make([]rune, len(needle))
	for i, r := range needle {
		lowerNeedle[i] = unicode.ToLower(r)
	}

outer:
	for i := 0; i+len(lowerNeedle) <= len(haystack); i++ {
		for j, r := range lowerNeedle {
			if unicode.ToLower(haystack[i+j]) != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
