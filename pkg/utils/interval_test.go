package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(hour, minute int) time.Time {
	return time.Date(2026, 9, 14, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{
			name:   "identical windows overlap",
			aStart: day(10, 0), aEnd: day(12, 0),
			bStart: day(10, 0), bEnd: day(12, 0),
			expected: true,
		},
		{
			name:   "partial overlap",
			aStart: day(10, 0), aEnd: day(12, 0),
			bStart: day(11, 0), bEnd: day(13, 0),
			expected: true,
		},
		{
			name:   "touching boundaries do not overlap",
			aStart: day(10, 0), aEnd: day(12, 0),
			bStart: day(12, 0), bEnd: day(14, 0),
			expected: false,
		},
		{
			name:   "touching boundaries reversed",
			aStart: day(12, 0), aEnd: day(14, 0),
			bStart: day(10, 0), bEnd: day(12, 0),
			expected: false,
		},
		{
			name:   "one window contains the other",
			aStart: day(10, 0), aEnd: day(16, 0),
			bStart: day(11, 0), bEnd: day(12, 0),
			expected: true,
		},
		{
			name:   "fully disjoint",
			aStart: day(10, 0), aEnd: day(11, 0),
			bStart: day(14, 0), bEnd: day(15, 0),
			expected: false,
		},
		{
			name:   "one minute of overlap",
			aStart: day(10, 0), aEnd: day(12, 1),
			bStart: day(12, 0), bEnd: day(14, 0),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.expected, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestWithinBusinessHours(t *testing.T) {
	const open, close = 10, 17

	assert.True(t, WithinBusinessHours(day(10, 0), day(12, 0), open, close))
	assert.True(t, WithinBusinessHours(day(10, 0), day(17, 0), open, close))
	assert.True(t, WithinBusinessHours(day(16, 0), day(17, 0), open, close))

	assert.False(t, WithinBusinessHours(day(9, 0), day(11, 0), open, close), "starts before opening")
	assert.False(t, WithinBusinessHours(day(16, 0), day(18, 0), open, close), "ends after closing")
	assert.False(t, WithinBusinessHours(day(12, 0), day(12, 0), open, close), "empty window")
	assert.False(t, WithinBusinessHours(day(14, 0), day(12, 0), open, close), "end before start")

	// Window spilling into the next day is rejected even when the clock
	// times look fine.
	nextDay := day(11, 0).Add(24 * time.Hour)
	assert.False(t, WithinBusinessHours(day(16, 0), nextDay, open, close))
}

func TestDefaultDayWindow(t *testing.T) {
	now := time.Date(2026, 9, 14, 15, 42, 7, 0, time.UTC)

	start, end := DefaultDayWindow(now)

	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 14, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.After(now))
}
