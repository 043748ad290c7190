package services

import (
	"regexp"
	"strings"
)

// punctuation matches everything that is not a letter, digit, underscore
// or whitespace.
var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// SanitizeTerms turns extractor output into index query terms: punctuation
// is removed, whitespace collapsed, terms lowercased and de-duplicated in
// first-seen order. A nil result means no valid terms remain.
func SanitizeTerms(keywords string) []string {
	cleaned := punctuation.ReplaceAllString(keywords, "")

	var terms []string
	seen := make(map[string]bool)
	for _, field := range strings.Fields(cleaned) {
		term := strings.ToLower(field)
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}
