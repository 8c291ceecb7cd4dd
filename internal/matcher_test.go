package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatcher(t *testing.T) *ContentMatcher {
	t.Helper()
	return NewContentMatcher(2.0, NewUIManager(false, true))
}

func TestContentMatcherMatch(t *testing.T) {
	matcher := testMatcher(t)

	candidates := []VideoCandidate{
		{VideoID: "unrelated01", Title: "Cooking Pasta", Description: "A recipe video"},
		{VideoID: "habitvid001", Title: "Third Habit Tip: Wake Up Early", Description: "Morning routines"},
	}

	best, confidence := matcher.Match("the third habit tip about waking up early", candidates)
	require.NotNil(t, best)
	assert.Equal(t, "habitvid001", best.VideoID)
	assert.GreaterOrEqual(t, confidence, 0.5)
	assert.LessOrEqual(t, confidence, 0.9)
}

func TestContentMatcherSubstringKeywords(t *testing.T) {
	matcher := testMatcher(t)

	// "habit" must hit the pluralized title word; whole-word matching
	// would score this candidate below the threshold.
	candidates := []VideoCandidate{
		{VideoID: "ninehabits9", Title: "9 Habits video"},
	}

	best, confidence := matcher.Match("third habit tip", candidates)
	require.NotNil(t, best)
	assert.Equal(t, "ninehabits9", best.VideoID)
	assert.InDelta(t, 0.7, confidence, 0.001)
}

func TestScoreCandidateRawWordOverlap(t *testing.T) {
	matcher := testMatcher(t)

	snippet := "welcome to my channel"
	candidate := VideoCandidate{Title: "Welcome Tutorial"}
	score := matcher.scoreCandidate(snippet, ExtractKeywords(snippet), &candidate)
	// one shared word (3) + one keyword substring in the title (2)
	assert.Equal(t, 5.0, score)
}

func TestScoreCandidateKeywordInBothFields(t *testing.T) {
	matcher := testMatcher(t)

	snippet := "quantum"
	candidate := VideoCandidate{Title: "Quantum Physics", Description: "quantum explained"}
	score := matcher.scoreCandidate(snippet, ExtractKeywords(snippet), &candidate)
	// word overlap 3+2, keyword bonus 2+1: both fields count
	assert.Equal(t, 8.0, score)
}

func TestContentMatcherNoMatchBelowThreshold(t *testing.T) {
	matcher := testMatcher(t)

	candidates := []VideoCandidate{
		{VideoID: "unrelated01", Title: "Cooking Pasta", Description: "A recipe video"},
	}

	best, confidence := matcher.Match("quantum entanglement lecture notes", candidates)
	assert.Nil(t, best)
	assert.Zero(t, confidence)
}

func TestContentMatcherFirstCandidateWinsTies(t *testing.T) {
	matcher := testMatcher(t)

	candidates := []VideoCandidate{
		{VideoID: "firstvideo1", Title: "Compound Interest Explained"},
		{VideoID: "secondvideo", Title: "Compound Interest Explained"},
	}

	best, _ := matcher.Match("compound interest explained", candidates)
	require.NotNil(t, best)
	assert.Equal(t, "firstvideo1", best.VideoID)
}

func TestMatchConfidenceCap(t *testing.T) {
	assert.Equal(t, 0.9, MatchConfidence(100))
	assert.InDelta(t, 0.65, MatchConfidence(3), 0.001)
}

func TestExtractHabitNumber(t *testing.T) {
	tests := []struct {
		snippet  string
		expected int
	}{
		{"the third habit is consistency", 3},
		{"habit 5 changed my life", 5},
		{"my 2nd habit", 2},
		{"7 habits of highly effective people", 7},
		{"no numbered habits here at all", 0},
		{"something entirely different", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractHabitNumber(tt.snippet), "snippet %q", tt.snippet)
	}
}

func TestEstimateWindow(t *testing.T) {
	t.Run("habit number positions", func(t *testing.T) {
		start, end := EstimateWindow("the third habit is waking up")
		assert.Equal(t, float64(165), start) // 30 + 3*45
		assert.Greater(t, end, start)
	})

	t.Run("positional cues beat habit numbers", func(t *testing.T) {
		start, _ := EstimateWindow("welcome to habit 3")
		assert.Equal(t, float64(15), start)
	})

	t.Run("habit without a number", func(t *testing.T) {
		start, _ := EstimateWindow("building any habit takes patience and time")
		assert.Equal(t, float64(90), start)
	})

	t.Run("intro language", func(t *testing.T) {
		start, _ := EstimateWindow("welcome to the intro")
		assert.Equal(t, float64(15), start)
	})

	t.Run("conclusion language", func(t *testing.T) {
		start, _ := EstimateWindow("in conclusion we learned a lot today from this video")
		assert.Equal(t, float64(300), start)
	})

	t.Run("example language", func(t *testing.T) {
		start, _ := EstimateWindow("for instance consider compound growth")
		assert.Equal(t, float64(120), start)
	})

	t.Run("default", func(t *testing.T) {
		start, _ := EstimateWindow("something unremarkable was said")
		assert.Equal(t, float64(60), start)
	})

	t.Run("duration scales with word count", func(t *testing.T) {
		start, end := EstimateWindow("short snippet here")
		assert.Equal(t, float64(20), end-start)

		start, end = EstimateWindow("a medium snippet with a few more words than the short one")
		assert.Equal(t, float64(45), end-start)

		long := "this is a much longer snippet that clearly exceeds fifteen words in total length so it gets the longest duration bucket"
		start, end = EstimateWindow(long)
		assert.Equal(t, float64(60), end-start)
	})
}
