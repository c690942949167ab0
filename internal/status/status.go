// Package status provides a thread-safe status tracker for the justswim
// daemon. It is read by HTTP handlers and serialized into MQTT system
// events.
package status

import (
	"sync"
	"time"

	"github.com/joeldrotleff/JustSwim/internal/motion"
	"github.com/joeldrotleff/JustSwim/internal/session"
)

// recentSetsCap bounds how many finished sets the tracker keeps for display.
const recentSetsCap = 10

// Config contains daemon configuration for display.
type Config struct {
	SampleMs    int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	PoolLength  float64
	PoolUnit    string
}

// Workout is the state-machine view pushed into the tracker each tick.
type Workout struct {
	Phase     session.Phase
	Swim      session.SwimState
	Countdown int
	SessionID string
	SetCount  int
	LapsInSet int
	TotalLaps int
	Elapsed   time.Duration
}

// TapInfo describes the most recent wall tap.
type TapInfo struct {
	Time      time.Time
	Magnitude float64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Workout       Workout
	TapsDetected  int
	CorrectedSets int
	LastTap       *TapInfo
	RecentSets    []session.SetRecord
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind a mutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Workout:   Workout{Phase: session.PhasePreStart},
		},
	}
}

// UpdateWorkout sets the state-machine view. Called from the run loop.
func (t *Tracker) UpdateWorkout(w Workout) {
	t.mu.Lock()
	t.snap.Workout = w
	t.mu.Unlock()
}

// RecordTap notes a detected wall tap.
func (t *Tracker) RecordTap(e motion.TapEvent) {
	t.mu.Lock()
	t.snap.TapsDetected++
	t.snap.LastTap = &TapInfo{Time: e.Time, Magnitude: e.Magnitude}
	t.mu.Unlock()
}

// RecordSet notes a finalized set for the recent-sets display.
func (t *Tracker) RecordSet(rec session.SetRecord) {
	t.mu.Lock()
	if rec.Corrected {
		t.snap.CorrectedSets++
	}
	t.snap.RecentSets = append(t.snap.RecentSets, rec)
	if len(t.snap.RecentSets) > recentSetsCap {
		t.snap.RecentSets = t.snap.RecentSets[len(t.snap.RecentSets)-recentSetsCap:]
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.RecentSets = append([]session.SetRecord(nil), t.snap.RecentSets...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
