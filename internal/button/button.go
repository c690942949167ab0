// Package button provides manual actuation input with hardware abstraction.
// The real implementation uses Linux GPIO character device edge events.
// The fake implementation allows testing without hardware.
package button

import "time"

// Kind identifies which control was pressed.
type Kind string

const (
	// KindToggle is the swim/rest button. In PreStart it starts the
	// session; in Completed it resets for a fresh one.
	KindToggle Kind = "TOGGLE"
	// KindPause pauses or resumes the workout.
	KindPause Kind = "PAUSE"
	// KindEnd finishes the session.
	KindEnd Kind = "END"
)

// Press is one button actuation.
type Press struct {
	Time time.Time
	Kind Kind
}

// Input delivers button presses.
type Input interface {
	// Presses returns the channel presses arrive on. Presses are dropped
	// rather than blocking if the consumer falls behind.
	Presses() <-chan Press

	// Close releases input resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinToggle = 17
	DefaultPinPause  = 27
	DefaultPinEnd    = 22
)

// Debounce applied to the GPIO lines in hardware.
const Debounce = 30 * time.Millisecond
