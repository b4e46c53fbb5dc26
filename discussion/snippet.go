package discussion

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultSnippetLength caps snippets unless Config overrides it.
	DefaultSnippetLength = 280

	ellipsis    = "..."
	noTextLabel = "[No text content]"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Snippet derives a display excerpt of at most max characters. It prefers the
// first paragraph of body mentioning both subjects, falls back to the whole
// body, and uses the title when the body is empty.
func Snippet(body, title string, subjects Subjects, max int) string {
	if strings.TrimSpace(body) == "" {
		if title == "" {
			return noTextLabel
		}
		return truncate(title, max)
	}

	for _, para := range paragraphBreak.Split(body, -1) {
		if subjects.Both(para) {
			return truncate(collapse(para), max)
		}
	}
	return truncate(collapse(body), max)
}

// collapse replaces whitespace runs with a single space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to max runes, ending in an ellipsis when shortened.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	keep := max - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis
}
