package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// SecondsToTimestamp converts seconds to HH:MM:SS format
func SecondsToTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// TimestampToSeconds parses HH:MM:SS, MM:SS, or plain seconds into seconds.
// A malformed timestamp is a contract violation and returns an error.
func TimestampToSeconds(timestamp string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(timestamp), ":")
	switch len(parts) {
	case 3:
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("parsing hours in %q: %w", timestamp, err)
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("parsing minutes in %q: %w", timestamp, err)
		}
		seconds, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("parsing seconds in %q: %w", timestamp, err)
		}
		return float64(hours*3600 + minutes*60 + seconds), nil
	case 2:
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("parsing minutes in %q: %w", timestamp, err)
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("parsing seconds in %q: %w", timestamp, err)
		}
		return float64(minutes*60 + seconds), nil
	case 1:
		seconds, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing timestamp %q: %w", timestamp, err)
		}
		return seconds, nil
	default:
		return 0, fmt.Errorf("invalid timestamp format: %q", timestamp)
	}
}
