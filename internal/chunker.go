package internal

import (
	"fmt"
	"strings"
)

// ChunkData is an unembedded transcript chunk with its timing
type ChunkData struct {
	Text  string
	Start float64
	End   float64
}

// formatSegmentLine renders a segment as a timestamped transcript line,
// keeping the spoken-at time visible inside the searchable text.
func formatSegmentLine(seg Segment) string {
	return fmt.Sprintf("[%s] %s", SecondsToTimestamp(seg.Start), strings.TrimSpace(seg.Text))
}

// ChunkSegments splits transcript segments into overlapping chunks of
// roughly chunkSize characters with roughly overlap characters shared
// between neighbors. Chunk boundaries always fall on segment boundaries so
// timing stays exact.
func ChunkSegments(segments []Segment, chunkSize, overlap int) []ChunkData {
	if len(segments) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = formatSegmentLine(seg)
	}

	var chunks []ChunkData
	i := 0
	for i < len(lines) {
		j := i
		size := 0
		for j < len(lines) && (size == 0 || size+len(lines[j])+1 <= chunkSize) {
			size += len(lines[j]) + 1
			j++
		}

		chunks = append(chunks, ChunkData{
			Text:  strings.Join(lines[i:j], "\n"),
			Start: segments[i].Start,
			End:   segments[j-1].End(),
		})

		if j >= len(lines) {
			break
		}

		// Walk back over trailing lines to form the overlap with the next
		// chunk, always keeping forward progress.
		back := j
		overlapSize := 0
		for back > i+1 && overlapSize+len(lines[back-1])+1 <= overlap {
			overlapSize += len(lines[back-1]) + 1
			back--
		}
		i = back
	}

	return chunks
}
