// Package laps consumes the external automatic lap counter. The counter is
// an independent device publishing a monotonically increasing count; the
// state machine only ever differences it against a captured baseline.
package laps

// Counter delivers lap-count updates.
type Counter interface {
	// Counts returns the channel count updates arrive on. Values are the
	// counter's absolute reading, not deltas.
	Counts() <-chan int

	// Close releases the feed.
	Close() error
}
