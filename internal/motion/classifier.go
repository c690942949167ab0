package motion

import (
	"math"
	"time"
)

// Classifier detects discrete wall-tap impacts in a continuous sample
// stream. It keeps a short rolling history and applies rest gating plus a
// cooldown so a single physical impact yields at most one event.
//
// Ingest must be called once per sample in arrival order. The Classifier is
// not safe for concurrent use.
type Classifier struct {
	history [HistorySize]Sample
	head    int // next write position
	count   int

	atRest        bool
	restStartedAt time.Time // zero = no candidate rest period
	lastDetection time.Time // zero = never
	lastSample    time.Time
}

// NewClassifier creates a Classifier ready to ingest samples. The wrist is
// assumed quiet at start, so the first qualifying spike can detect without
// waiting out a rest period.
func NewClassifier() *Classifier {
	return &Classifier{atRest: true}
}

// Ingest processes one sample and reports a detected tap, if any. Samples
// with timestamps earlier than the previous sample are skipped; a single
// bad reading must not halt the stream.
func (c *Classifier) Ingest(s Sample) (TapEvent, bool) {
	if s.Time.Before(c.lastSample) {
		return TapEvent{}, false
	}

	prev, hasPrev := c.newest()
	c.push(s)
	c.lastSample = s.Time

	c.updateRest(s)

	// Gate: enough history, quiet wrist, outside cooldown.
	if c.count < 3 || !c.atRest {
		return TapEvent{}, false
	}
	if !c.lastDetection.IsZero() && s.Time.Sub(c.lastDetection) < CooldownPeriod {
		return TapEvent{}, false
	}

	// Jerk between the two newest samples.
	if !hasPrev {
		return TapEvent{}, false
	}
	dt := s.Time.Sub(prev.Time).Seconds()
	if dt <= 0 {
		return TapEvent{}, false
	}
	jerk := math.Abs(s.Magnitude-prev.Magnitude) / dt

	if s.Magnitude <= TapThreshold || jerk <= JerkThreshold {
		return TapEvent{}, false
	}

	// Impact shape: a sharp spike clears the recent average; sustained
	// vigorous motion (stroking) does not.
	if !c.impactPattern(s) {
		return TapEvent{}, false
	}

	c.atRest = false
	c.restStartedAt = time.Time{}
	c.lastDetection = s.Time

	return TapEvent{Time: s.Time, Magnitude: s.Magnitude}, true
}

// AtRest reports whether the rest gate is currently satisfied.
func (c *Classifier) AtRest() bool {
	return c.atRest
}

// updateRest maintains the rest gate. A candidate rest period is aborted by
// a spike only while not yet at rest; once at rest it is deliberately left
// alone so the tap itself cannot re-trigger the settling timer.
func (c *Classifier) updateRest(s Sample) {
	if s.Magnitude < RestThreshold {
		if c.restStartedAt.IsZero() {
			c.restStartedAt = s.Time
		}
		if s.Time.Sub(c.restStartedAt) >= RestDuration {
			c.atRest = true
		}
		return
	}
	if !c.atRest {
		c.restStartedAt = time.Time{}
	}
}

// impactPattern checks the newest sample against the average of the samples
// preceding it within the last patternWindow entries.
func (c *Classifier) impactPattern(newest Sample) bool {
	n := c.count
	if n > patternWindow {
		n = patternWindow
	}
	recent := c.recent(n)

	var sum float64
	for _, s := range recent[:len(recent)-1] {
		sum += s.Magnitude
	}
	avg := sum / float64(len(recent)-1)

	return newest.Magnitude > avg*patternRatio
}

// push appends a sample to the ring history, evicting the oldest at cap.
func (c *Classifier) push(s Sample) {
	c.history[c.head] = s
	c.head = (c.head + 1) % HistorySize
	if c.count < HistorySize {
		c.count++
	}
}

// newest returns the most recently pushed sample.
func (c *Classifier) newest() (Sample, bool) {
	if c.count == 0 {
		return Sample{}, false
	}
	idx := (c.head - 1 + HistorySize) % HistorySize
	return c.history[idx], true
}

// recent returns the last n samples in arrival order. n must be <= count.
func (c *Classifier) recent(n int) []Sample {
	out := make([]Sample, n)
	start := (c.head - n + HistorySize) % HistorySize
	for i := 0; i < n; i++ {
		out[i] = c.history[(start+i)%HistorySize]
	}
	return out
}
