package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,200
hello and welcome back

2
00:00:04,200 --> 00:00:08,500
today we talk about habits

3
00:00:08,500 --> 00:00:12,000
today we talk about habits

4
00:00:12,000 --> 00:00:15,000
specifically waking up early
`

func TestParseSRT(t *testing.T) {
	segments := ParseSRT(sampleSRT)
	require.Len(t, segments, 3)

	assert.Equal(t, 1.0, segments[0].Start)
	assert.InDelta(t, 3.2, segments[0].Duration, 0.001)
	assert.Equal(t, "hello and welcome back", segments[0].Text)

	// The repeated caption is collapsed
	assert.Equal(t, "today we talk about habits", segments[1].Text)
	assert.Equal(t, "specifically waking up early", segments[2].Text)
}

func TestParseSRTMultilineText(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:02,000\nfirst line\nsecond line\n"
	segments := ParseSRT(content)
	require.Len(t, segments, 1)
	assert.Equal(t, "first line second line", segments[0].Text)
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	content := "garbage\n\n1\nnot a timing line\ntext\n\n2\n00:00:01,000 --> 00:00:02,000\nvalid\n"
	segments := ParseSRT(content)
	require.Len(t, segments, 1)
	assert.Equal(t, "valid", segments[0].Text)
}

func TestParseSRTWindowsLineEndings(t *testing.T) {
	content := "1\r\n00:00:00,500 --> 00:00:01,500\r\ncarriage returns\r\n"
	segments := ParseSRT(content)
	require.Len(t, segments, 1)
	assert.Equal(t, 0.5, segments[0].Start)
	assert.Equal(t, "carriage returns", segments[0].Text)
}
