package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsToTimestamp(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{165, "00:02:45"},
		{3600, "01:00:00"},
		{3725.9, "01:02:05"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SecondsToTimestamp(tt.seconds))
	}
}

func TestTimestampToSeconds(t *testing.T) {
	t.Run("three part", func(t *testing.T) {
		got, err := TimestampToSeconds("01:02:05")
		require.NoError(t, err)
		assert.Equal(t, float64(3725), got)
	})

	t.Run("two part", func(t *testing.T) {
		got, err := TimestampToSeconds("02:45")
		require.NoError(t, err)
		assert.Equal(t, float64(165), got)
	})

	t.Run("plain seconds", func(t *testing.T) {
		got, err := TimestampToSeconds("42.5")
		require.NoError(t, err)
		assert.Equal(t, 42.5, got)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := TimestampToSeconds("1:2:3:4")
		assert.Error(t, err)

		_, err = TimestampToSeconds("abc")
		assert.Error(t, err)

		_, err = TimestampToSeconds("01:xx:00")
		assert.Error(t, err)
	})
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 1, 59, 60, 61, 3599, 3600, 86399} {
		formatted := SecondsToTimestamp(seconds)
		parsed, err := TimestampToSeconds(formatted)
		require.NoError(t, err)
		assert.Equal(t, seconds, parsed, "round trip for %v via %s", seconds, formatted)
	}
}
