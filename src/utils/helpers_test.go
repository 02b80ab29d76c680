package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("06:30")
	assert.NoError(t, err)
	assert.Equal(t, 390, minutes)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(1700, 1699.5, 1.0))
	assert.True(t, WithinTolerance(1699.5, 1700, 1.0))
	assert.False(t, WithinTolerance(1700, 1500, 1.0))
}

func TestBookingReference(t *testing.T) {
	start := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	ref := BookingReference("Grand Arena", start)
	assert.Equal(t, "grand-arena-20260901-0900", ref)
}

func TestDurationHours(t *testing.T) {
	start := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.5, DurationHours(start, start.Add(90*time.Minute)))
}
