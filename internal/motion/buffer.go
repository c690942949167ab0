package motion

import (
	"sync"
	"time"
)

// RetentionDuration bounds how long tap events are kept. It only caps
// memory: lookups never query more than a few seconds back.
const RetentionDuration = 10 * time.Second

// TapBuffer is a time-bounded store of recent tap events, written by the
// sampling path and queried by the interval state machine. Safe for
// concurrent use.
type TapBuffer struct {
	mu     sync.Mutex
	events []TapEvent
}

// NewTapBuffer creates an empty TapBuffer.
func NewTapBuffer() *TapBuffer {
	return &TapBuffer{}
}

// Record stores an event and lazily evicts anything older than the
// retention window relative to the event's own timestamp.
func (b *TapBuffer) Record(e TapEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	b.evictLocked(e.Time.Add(-RetentionDuration))
}

// EvictOlderThan removes all events with timestamps before cutoff.
func (b *TapBuffer) EvictOlderThan(cutoff time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evictLocked(cutoff)
}

func (b *TapBuffer) evictLocked(cutoff time.Time) {
	i := 0
	for i < len(b.events) && b.events[i].Time.Before(cutoff) {
		i++
	}
	if i > 0 {
		b.events = append(b.events[:0], b.events[i:]...)
	}
}

// MostRecentBefore returns the latest event with a timestamp in
// [at-window, at]. Ties go to the latest-recorded event, though the
// classifier's cooldown makes ties unexpected in practice.
func (b *TapBuffer) MostRecentBefore(at time.Time, window time.Duration) (TapEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	earliest := at.Add(-window)
	for i := len(b.events) - 1; i >= 0; i-- {
		e := b.events[i]
		if e.Time.After(at) {
			continue
		}
		if e.Time.Before(earliest) {
			return TapEvent{}, false
		}
		return e, true
	}
	return TapEvent{}, false
}

// Len reports the number of retained events.
func (b *TapBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
