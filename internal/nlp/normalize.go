package nlp

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text and collapses any run of whitespace to a
// single space, trimming the ends. Unicode is NFKC-folded first so
// typographic variants compare equal. Pure and total: empty in, empty out.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// WordCount returns the number of whitespace-separated words in the
// normalized form of text.
func WordCount(text string) int {
	return len(strings.Fields(Normalize(text)))
}
