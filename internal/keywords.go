package internal

import (
	"regexp"
	"strings"
)

// stopWords are common words excluded from search query construction
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "this": true, "that": true, "these": true, "those": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true,
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// ExtractKeywords extracts deduplicated keywords from text in first-seen
// order, so queries built from the result are deterministic.
func ExtractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	return keywords
}

// BuildSearchQuery joins up to max keywords into a search query string
func BuildSearchQuery(keywords []string, max int) string {
	if len(keywords) > max {
		keywords = keywords[:max]
	}
	return strings.Join(keywords, " ")
}
