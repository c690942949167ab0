// Package motion contains pure signal logic for wall-tap detection from a
// continuous 3-axis accelerometer stream. This package has NO external
// dependencies (no IIO, MQTT, OS, or time.Sleep). Time is always injectable
// via sample timestamps.
package motion

import (
	"math"
	"time"
)

// Sample is one timestamped 3-axis acceleration reading. Axis values and
// magnitude are in units of standard gravity (g).
type Sample struct {
	Time      time.Time
	X, Y, Z   float64
	Magnitude float64
}

// NewSample builds a Sample with its Euclidean magnitude precomputed.
func NewSample(t time.Time, x, y, z float64) Sample {
	return Sample{
		Time:      t,
		X:         x,
		Y:         y,
		Z:         z,
		Magnitude: math.Sqrt(x*x + y*y + z*z),
	}
}

// TapEvent is a detected wall-tap impact. Never mutated after creation.
type TapEvent struct {
	Time      time.Time
	Magnitude float64
}

// Detection tuning. Thresholds are in g; jerk in g per second.
const (
	// HistorySize caps the classifier's rolling sample window.
	HistorySize = 10

	// RestThreshold is the magnitude below which the wrist counts as quiet.
	RestThreshold = 1.15

	// RestDuration is how long the magnitude must stay quiet before a new
	// tap may be detected.
	RestDuration = 100 * time.Millisecond

	// CooldownPeriod is the minimum spacing between two detections, so one
	// physical impact cannot fire twice.
	CooldownPeriod = 300 * time.Millisecond

	// TapThreshold is the minimum magnitude of a tap candidate.
	TapThreshold = 1.3

	// JerkThreshold is the minimum rate of magnitude change of a candidate.
	JerkThreshold = 8.0

	// patternWindow and patternRatio describe the impact shape test: the
	// newest sample must exceed the average of the samples preceding it
	// (within the last patternWindow) by patternRatio.
	patternWindow = 4
	patternRatio  = 1.3
)
