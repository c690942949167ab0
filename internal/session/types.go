// Package session implements the swim/rest interval state machine. It owns
// the authoritative set timing: manual toggle timestamps are corrected
// against the nearest preceding wall tap, and laps per set are computed by
// baseline subtraction from an external lap counter.
//
// The machine is pure logic: no I/O, no timers. Callers drive it from a
// single loop with explicit timestamps and act on the events it returns.
package session

import (
	"time"

	"github.com/joeldrotleff/JustSwim/internal/motion"
)

// Phase is the top-level workout phase. Exactly one is current.
type Phase string

const (
	PhasePreStart      Phase = "PRE_START"
	PhasePoolSelection Phase = "POOL_SELECTION"
	PhaseCountdown     Phase = "COUNTDOWN"
	PhaseActive        Phase = "ACTIVE"
	PhasePaused        Phase = "PAUSED"
	PhaseCompleted     Phase = "COMPLETED"
)

// SwimState is the inner state while the workout is active.
type SwimState string

const (
	SwimNone      SwimState = ""
	SwimResting   SwimState = "RESTING"
	SwimCountdown SwimState = "COUNTDOWN_TO_SWIM"
	SwimSwimming  SwimState = "SWIMMING"
)

// CountdownStart is the initial value of both the pre-workout countdown and
// the rest-to-swim countdown, in seconds.
const CountdownStart = 3

// CorrectionWindow is how far back from a manual toggle a wall tap may be
// matched.
const CorrectionWindow = 5 * time.Second

// Pool describes the pool a session is swum in. Supplied once before the
// session starts and immutable for its duration.
type Pool struct {
	Length float64
	Unit   string // "m" or "yd"
}

// SetRecord is one completed swim set. Immutable once emitted.
type SetRecord struct {
	Start     time.Time
	End       time.Time
	Laps      int
	Corrected bool // End came from a wall tap rather than the button
}

// Duration returns the timed length of the set.
func (r SetRecord) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// ManualTransition is the record handed to the external workout service on
// each phase toggle. The timestamp reflects wall-tap correction when one
// matched.
type ManualTransition struct {
	Time     time.Time
	Swimming bool
}

// EventKind identifies an effect the caller must perform.
type EventKind string

const (
	// EventSessionStarted: start the external session and begin sampling.
	EventSessionStarted EventKind = "SESSION_STARTED"
	// EventTransition: append the ManualTransition to the external service.
	EventTransition EventKind = "TRANSITION"
	// EventSetCompleted: a SetRecord was finalized.
	EventSetCompleted EventKind = "SET_COMPLETED"
	// EventSessionPaused / EventSessionResumed: mirror to the external service.
	EventSessionPaused  EventKind = "SESSION_PAUSED"
	EventSessionResumed EventKind = "SESSION_RESUMED"
	// EventSessionEnded: report final SetRecords to the external service.
	EventSessionEnded EventKind = "SESSION_ENDED"
)

// Event is an effect produced by a machine transition. The machine's own
// state never depends on whether the caller's handling succeeds: losing an
// external record must not corrupt the in-progress timing.
type Event struct {
	Kind       EventKind
	Time       time.Time
	Transition *ManualTransition // set for EventTransition
	Set        *SetRecord        // set for EventSetCompleted
}

// TapLookup is the slice of the tap buffer the machine needs.
type TapLookup interface {
	MostRecentBefore(at time.Time, window time.Duration) (motion.TapEvent, bool)
}
