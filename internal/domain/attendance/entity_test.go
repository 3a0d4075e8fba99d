package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusInProgress, StatusCompleted, StatusAutoExpired, StatusEdited, StatusManual} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("PENDING").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusInProgress.Terminal())
	for _, s := range []Status{StatusCompleted, StatusAutoExpired, StatusEdited, StatusManual} {
		assert.True(t, s.Terminal(), s)
	}
}

func TestDurationForTruncatesToMinutes(t *testing.T) {
	clockIn := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 510, DurationFor(clockIn, clockIn.Add(8*time.Hour+30*time.Minute)))
	// Partial minutes truncate, they never round up.
	assert.Equal(t, 59, DurationFor(clockIn, clockIn.Add(59*time.Minute+59*time.Second)))
	assert.Equal(t, 0, DurationFor(clockIn, clockIn))
}

func TestLogFilterDefaults(t *testing.T) {
	var f LogFilter
	assert.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
}

func TestLogFilterRejectsOversizedPage(t *testing.T) {
	f := LogFilter{PageSize: 500}
	assert.Error(t, f.Validate())
}
