package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	t.Run("drops stop words and short words", func(t *testing.T) {
		keywords := ExtractKeywords("the quick brown fox is in a box")
		assert.Equal(t, []string{"quick", "brown", "fox", "box"}, keywords)
	})

	t.Run("first seen order with dedup", func(t *testing.T) {
		keywords := ExtractKeywords("Habit stacking makes every habit easier, habit by habit")
		assert.Equal(t, []string{"habit", "stacking", "makes", "every", "easier"}, keywords)
	})

	t.Run("lowercases", func(t *testing.T) {
		keywords := ExtractKeywords("Compound Interest EXPLAINED")
		assert.Equal(t, []string{"compound", "interest", "explained"}, keywords)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords(""))
		assert.Empty(t, ExtractKeywords("a an the i it"))
	})
}

func TestBuildSearchQuery(t *testing.T) {
	keywords := []string{"compound", "interest", "explained", "simply", "money", "wealth"}

	assert.Equal(t, "compound interest explained simply money", BuildSearchQuery(keywords, 5))
	assert.Equal(t, "compound interest explained simply money wealth", BuildSearchQuery(keywords, 10))
	assert.Equal(t, "", BuildSearchQuery(nil, 5))
}
