package attendance

import "errors"

// Attendance domain errors
var (
	// Clock engine errors
	ErrAlreadyClockedIn = errors.New("you are already clocked in")
	ErrNotClockedIn     = errors.New("you are not clocked in")

	// General errors
	ErrEntryNotFound   = errors.New("attendance entry not found")
	ErrVersionConflict = errors.New("attendance entry was modified concurrently")
)
