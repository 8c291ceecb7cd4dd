package internal

import (
	"strings"
)

// ParseSRT extracts timed segments from SRT subtitle content. Consecutive
// entries whose text overlaps (a quirk of auto-generated captions) are
// collapsed into one segment.
func ParseSRT(content string) []Segment {
	var segments []Segment

	for block := range strings.SplitSeq(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		start, end, ok := parseSRTTiming(lines[1])
		if !ok {
			continue
		}

		var textLines []string
		for _, line := range lines[2:] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				textLines = append(textLines, trimmed)
			}
		}
		if len(textLines) == 0 {
			continue
		}

		segments = append(segments, Segment{
			Start:    start,
			Duration: end - start,
			Text:     strings.Join(textLines, " "),
		})
	}

	return collapseDuplicateSegments(segments)
}

// parseSRTTiming parses a "00:00:01,000 --> 00:00:04,200" timing line
func parseSRTTiming(line string) (start, end float64, ok bool) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, err := parseSRTTimestamp(parts[0])
	if err != nil {
		return 0, 0, false
	}
	end, err = parseSRTTimestamp(parts[1])
	if err != nil || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// parseSRTTimestamp parses "HH:MM:SS,mmm" into seconds
func parseSRTTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)
	base := ts
	millis := 0.0
	if idx := strings.IndexByte(ts, ','); idx >= 0 {
		base = ts[:idx]
		frac := ts[idx+1:]
		for i, ch := range frac {
			if ch < '0' || ch > '9' || i >= 3 {
				break
			}
			millis = millis*10 + float64(ch-'0')
		}
		millis /= 1000
	}

	seconds, err := TimestampToSeconds(base)
	if err != nil {
		return 0, err
	}
	return seconds + millis, nil
}

// collapseDuplicateSegments drops segments whose text repeats or is contained
// in the previous segment's text
func collapseDuplicateSegments(segments []Segment) []Segment {
	result := make([]Segment, 0, len(segments))
	prevText := ""

	for _, seg := range segments {
		duplicate := prevText != "" &&
			(strings.Contains(seg.Text, prevText) || strings.Contains(prevText, seg.Text))
		if !duplicate {
			result = append(result, seg)
		}
		prevText = seg.Text
	}

	return result
}
