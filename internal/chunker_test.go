package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSegmentsSingleChunk(t *testing.T) {
	segments := []Segment{
		{Start: 0, Duration: 5, Text: "hello and welcome"},
		{Start: 5, Duration: 5, Text: "to the show"},
	}

	chunks := ChunkSegments(segments, 500, 100)
	require.Len(t, chunks, 1)

	assert.Equal(t, float64(0), chunks[0].Start)
	assert.Equal(t, float64(10), chunks[0].End)
	assert.Contains(t, chunks[0].Text, "[00:00:00] hello and welcome")
	assert.Contains(t, chunks[0].Text, "[00:00:05] to the show")
}

func TestChunkSegmentsSplitsWithOverlap(t *testing.T) {
	var segments []Segment
	for i := 0; i < 20; i++ {
		segments = append(segments, Segment{
			Start:    float64(i * 10),
			Duration: 10,
			Text:     strings.Repeat("word ", 10),
		})
	}

	chunks := ChunkSegments(segments, 200, 60)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 200, "chunk %d too large", i)
		assert.Less(t, chunk.Start, chunk.End, "chunk %d has no duration", i)
	}

	// Neighboring chunks share trailing lines
	for i := 1; i < len(chunks); i++ {
		firstLine := strings.SplitN(chunks[i].Text, "\n", 2)[0]
		assert.Contains(t, chunks[i-1].Text, firstLine, "chunk %d does not overlap its predecessor", i)
	}

	// Full coverage: last chunk ends where the transcript ends
	assert.Equal(t, segments[len(segments)-1].End(), chunks[len(chunks)-1].End)
}

func TestChunkSegmentsOversizedSegment(t *testing.T) {
	// A single segment larger than the chunk size still becomes a chunk
	segments := []Segment{{Start: 0, Duration: 30, Text: strings.Repeat("x", 800)}}

	chunks := ChunkSegments(segments, 500, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, float64(30), chunks[0].End)
}

func TestChunkSegmentsGuards(t *testing.T) {
	assert.Nil(t, ChunkSegments(nil, 500, 100))

	segments := testSegments("alpha", "beta")
	chunks := ChunkSegments(segments, -1, -1)
	require.NotEmpty(t, chunks)
}
