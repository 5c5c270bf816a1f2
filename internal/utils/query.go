package utils

import "strings"

// LikeEscape is the escape character paired with ESCAPE '!' in LIKE clauses.
const LikeEscape = '!'

// EscapeLike makes LIKE metacharacters in text match literally.
func EscapeLike(text string, escape rune) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '%' || r == '_' || r == escape {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate shortens text to at most n runes, marking the cut with an ellipsis.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
