package internal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ContentMatcher scores candidate videos against a snippet using title and
// description overlap. It is the fallback when no transcript-level match
// exists.
type ContentMatcher struct {
	scoreThreshold float64
	ui             UIManager
}

// NewContentMatcher creates a matcher with the configured score threshold
func NewContentMatcher(scoreThreshold float64, ui UIManager) *ContentMatcher {
	return &ContentMatcher{scoreThreshold: scoreThreshold, ui: ui}
}

// Match scores every candidate and returns the best one above the threshold,
// or nil when nothing scores high enough. The first candidate wins ties.
func (m *ContentMatcher) Match(snippet string, candidates []VideoCandidate) (*VideoCandidate, float64) {
	keywords := ExtractKeywords(snippet)
	if len(keywords) == 0 {
		return nil, 0
	}

	var best *VideoCandidate
	var bestScore float64
	for i := range candidates {
		score := m.scoreCandidate(snippet, keywords, &candidates[i])
		m.ui.Verbose("Content score %.1f for %s (%s)\n", score, candidates[i].VideoID, candidates[i].Title)
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best == nil || bestScore <= m.scoreThreshold {
		return nil, 0
	}
	return best, MatchConfidence(bestScore)
}

// MatchConfidence maps a content score onto a confidence capped at 0.9
func MatchConfidence(score float64) float64 {
	return math.Min(0.9, 0.5+0.05*score)
}

// scoreCandidate counts word overlap with the title triple and with the
// description double, then adds per-keyword substring bonuses (a keyword in
// both fields earns both) and a content-type bonus.
func (m *ContentMatcher) scoreCandidate(snippet string, keywords []string, candidate *VideoCandidate) float64 {
	title := strings.ToLower(candidate.Title)
	description := strings.ToLower(candidate.Description)
	snippetWords := fieldSet(snippet)

	var score float64
	score += 3 * float64(countCommon(snippetWords, fieldSet(candidate.Title)))
	score += 2 * float64(countCommon(snippetWords, fieldSet(candidate.Description)))

	for _, keyword := range keywords {
		if strings.Contains(title, keyword) {
			score += 2
		}
		if strings.Contains(description, keyword) {
			score += 1
		}
	}

	score += contentTypeBonus(snippet, candidate.Title)
	return score
}

// contentTypeBonus rewards candidates whose title shares the snippet's
// content type. Bonuses stack when a snippet spans several types.
func contentTypeBonus(snippet, title string) float64 {
	lowerSnippet := strings.ToLower(snippet)
	lowerTitle := strings.ToLower(title)

	var bonus float64
	if containsAny(lowerSnippet, "learn", "teach", "tutorial", "guide", "how to") &&
		containsAny(lowerTitle, "tutorial", "guide", "learn", "how to") {
		bonus += 3
	}
	if containsAny(lowerSnippet, "speaking", "presentation", "speech", "talk") &&
		containsAny(lowerTitle, "speaking", "presentation", "speech", "talk") {
		bonus += 3
	}
	if containsAny(lowerSnippet, "habit", "improve", "better", "tips") &&
		containsAny(lowerTitle, "habit", "improve", "tips", "better") {
		bonus += 2
	}
	return bonus
}

// containsAny reports whether text contains any of the given substrings
func containsAny(text string, substrings ...string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// fieldSet lowercases and whitespace-splits text into a membership set
func fieldSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[word] = true
	}
	return set
}

// countCommon counts words present in both sets
func countCommon(a, b map[string]bool) int {
	n := 0
	for word := range a {
		if b[word] {
			n++
		}
	}
	return n
}

var (
	habitCountPattern   = regexp.MustCompile(`habit\s*#?\s*(\d+)`)
	habitOrdinalPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\s+habit`)
	habitNumberPattern  = regexp.MustCompile(`(\d+)\s+habits?`)
)

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// extractHabitNumber finds which numbered habit a snippet refers to,
// returning 0 when none is mentioned.
func extractHabitNumber(snippet string) int {
	lower := strings.ToLower(snippet)

	if match := habitCountPattern.FindStringSubmatch(lower); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}
	if match := habitOrdinalPattern.FindStringSubmatch(lower); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}
	for word, n := range ordinalWords {
		if strings.Contains(lower, word+" habit") {
			return n
		}
	}
	if match := habitNumberPattern.FindStringSubmatch(lower); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}
	return 0
}

// EstimateWindow guesses where in a video a snippet was spoken based on
// positional language, and how long it runs based on its word count.
// Positional cues take precedence over habit references.
func EstimateWindow(snippet string) (start, end float64) {
	lower := strings.ToLower(snippet)

	switch {
	case strings.Contains(lower, "intro") || strings.Contains(lower, "welcome") || strings.Contains(lower, "beginning"):
		start = 15
	case strings.Contains(lower, "conclusion") || strings.Contains(lower, "summary") || strings.Contains(lower, "finally"):
		start = 300
	case strings.Contains(lower, "example") || strings.Contains(lower, "for instance"):
		start = 120
	case strings.Contains(lower, "habit"):
		if n := extractHabitNumber(lower); n > 0 {
			start = 30 + float64(n)*45
		} else {
			start = 90
		}
	case strings.Contains(lower, "tip") || strings.Contains(lower, "advice"):
		start = 60
	default:
		start = 60
	}

	words := len(strings.Fields(snippet))
	var duration float64
	switch {
	case words <= 5:
		duration = 20
	case words <= 15:
		duration = 45
	default:
		duration = 60
	}
	return start, start + duration
}
