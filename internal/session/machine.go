package session

import (
	"time"

	"github.com/google/uuid"
)

// Machine drives the swim/rest interval phases for one session. All inputs
// (toggles, 1 Hz ticks, lap counts, pause/end) must arrive on a single
// goroutine; the Machine itself does no locking.
type Machine struct {
	taps TapLookup

	phase     Phase
	swim      SwimState
	countdown int

	sessionID string
	pool      Pool

	setStart    *time.Time // non-nil exactly while Swimming
	lapBaseline int
	extLaps     int

	// Workout elapsed time starts at the first Swimming transition; rest
	// before the first set is not counted.
	firstSwimAt  *time.Time
	accrued      time.Duration
	runningSince *time.Time

	// Last tap consumed by a correction, so one tap never corrects two
	// transitions.
	lastTapUsed time.Time

	sets []SetRecord
}

// NewMachine creates a Machine in PreStart. The lookup may be nil, in which
// case every toggle is uncorrected.
func NewMachine(taps TapLookup) *Machine {
	return &Machine{
		taps:  taps,
		phase: PhasePreStart,
	}
}

// Begin moves PreStart to PoolSelection.
func (m *Machine) Begin(now time.Time) []Event {
	if m.phase != PhasePreStart {
		return nil
	}
	m.phase = PhasePoolSelection
	return nil
}

// ConfirmPool fixes the pool for this session and starts the pre-workout
// countdown. The returned EventSessionStarted tells the caller to start the
// external session and begin sample ingestion.
func (m *Machine) ConfirmPool(pool Pool, now time.Time) []Event {
	if m.phase != PhasePoolSelection {
		return nil
	}
	m.pool = pool
	m.sessionID = uuid.NewString()
	m.phase = PhaseCountdown
	m.countdown = CountdownStart
	return []Event{{Kind: EventSessionStarted, Time: now}}
}

// Tick advances the 1 Hz countdowns. Calls while no countdown is running
// are no-ops, so a straggling tick after a phase change is harmless.
func (m *Machine) Tick(now time.Time) []Event {
	switch {
	case m.phase == PhaseCountdown:
		m.countdown--
		if m.countdown < 0 {
			m.phase = PhaseActive
			m.swim = SwimResting
			m.countdown = 0
		}
		return nil

	case m.phase == PhaseActive && m.swim == SwimCountdown:
		m.countdown--
		if m.countdown < 0 {
			return m.beginSwimming(now)
		}
		return nil
	}
	return nil
}

// Toggle handles the user's swim/rest button. While Resting it arms the
// countdown to swim; mid-countdown it cancels; while Swimming it ends the
// set, applying wall-tap correction.
func (m *Machine) Toggle(now time.Time) []Event {
	if m.phase != PhaseActive {
		return nil
	}

	switch m.swim {
	case SwimResting:
		m.swim = SwimCountdown
		m.countdown = CountdownStart
		return nil

	case SwimCountdown:
		// Cancel: back to rest, swimming never started, nothing recorded.
		m.swim = SwimResting
		m.countdown = 0
		return nil

	case SwimSwimming:
		return m.endSet(now)
	}
	return nil
}

// beginSwimming starts a set: captures the start time and lap baseline and
// starts the overall elapsed clock if this is the session's first set.
func (m *Machine) beginSwimming(now time.Time) []Event {
	m.swim = SwimSwimming
	m.countdown = 0
	start := now
	m.setStart = &start
	m.lapBaseline = m.extLaps

	if m.firstSwimAt == nil {
		first := now
		m.firstSwimAt = &first
		since := now
		m.runningSince = &since
	}

	return []Event{{
		Kind:       EventTransition,
		Time:       now,
		Transition: &ManualTransition{Time: now, Swimming: true},
	}}
}

// endSet closes the current set at the given button time. If a wall tap
// landed within CorrectionWindow before the button press, the tap timestamp
// replaces the button timestamp; a missing tap is the documented fallback,
// not an error.
func (m *Machine) endSet(buttonTime time.Time) []Event {
	end := buttonTime
	corrected := false

	if m.taps != nil {
		if tap, ok := m.taps.MostRecentBefore(buttonTime, CorrectionWindow); ok && !tap.Time.Equal(m.lastTapUsed) {
			end = tap.Time
			corrected = true
			m.lastTapUsed = tap.Time
		}
	}

	laps := m.extLaps - m.lapBaseline
	if laps < 0 {
		laps = 0
	}

	rec := SetRecord{
		Start:     *m.setStart,
		End:       end,
		Laps:      laps,
		Corrected: corrected,
	}
	m.sets = append(m.sets, rec)
	m.setStart = nil
	m.swim = SwimResting

	return []Event{
		{Kind: EventSetCompleted, Time: buttonTime, Set: &rec},
		{
			Kind:       EventTransition,
			Time:       buttonTime,
			Transition: &ManualTransition{Time: end, Swimming: false},
		},
	}
}

// Pause suspends elapsed-time accrual. Countdown ticks stop because the
// caller's loop only ticks while Active.
func (m *Machine) Pause(now time.Time) []Event {
	if m.phase != PhaseActive && m.phase != PhaseCountdown {
		return nil
	}
	if m.runningSince != nil {
		m.accrued += now.Sub(*m.runningSince)
		m.runningSince = nil
	}
	m.phase = PhasePaused
	return []Event{{Kind: EventSessionPaused, Time: now}}
}

// Resume returns from Paused to Active.
func (m *Machine) Resume(now time.Time) []Event {
	if m.phase != PhasePaused {
		return nil
	}
	m.phase = PhaseActive
	if m.swim == SwimNone {
		// Paused during the pre-workout countdown; land in rest.
		m.swim = SwimResting
		m.countdown = 0
	}
	if m.firstSwimAt != nil {
		since := now
		m.runningSince = &since
	}
	return []Event{{Kind: EventSessionResumed, Time: now}}
}

// End completes the session. An open Swimming set is finalized first,
// through the same correction path as a manual toggle. Completed is
// terminal: only Reset can follow.
func (m *Machine) End(now time.Time) []Event {
	if m.phase != PhaseActive && m.phase != PhasePaused {
		return nil
	}

	var events []Event
	if m.swim == SwimSwimming {
		events = append(events, m.endSet(now)...)
	}
	if m.runningSince != nil {
		m.accrued += now.Sub(*m.runningSince)
		m.runningSince = nil
	}
	m.phase = PhaseCompleted
	m.swim = SwimNone
	m.countdown = 0

	return append(events, Event{Kind: EventSessionEnded, Time: now})
}

// Reset clears a Completed machine back to its initial values so a fresh
// session can be started.
func (m *Machine) Reset() {
	if m.phase != PhaseCompleted {
		return
	}
	*m = Machine{taps: m.taps, phase: PhasePreStart}
}

// SetLaps records the external lap counter's latest value. Non-increasing
// updates are ignored; the counter only ever counts up.
func (m *Machine) SetLaps(count int) {
	if count > m.extLaps {
		m.extLaps = count
	}
}

// Phase returns the current top-level phase.
func (m *Machine) Phase() Phase { return m.phase }

// Swim returns the current inner swim state; SwimNone outside Active.
func (m *Machine) Swim() SwimState { return m.swim }

// Countdown returns the current countdown value; 0 when none is running.
func (m *Machine) Countdown() int {
	if m.countdown < 0 {
		return 0
	}
	return m.countdown
}

// SessionID returns the UUID assigned at pool confirmation; empty before.
func (m *Machine) SessionID() string { return m.sessionID }

// Pool returns the confirmed pool configuration.
func (m *Machine) Pool() Pool { return m.pool }

// Swimming reports whether a set is currently in progress.
func (m *Machine) Swimming() bool { return m.setStart != nil }

// CurrentSetStart returns the start of the in-progress set and whether one
// exists.
func (m *Machine) CurrentSetStart() (time.Time, bool) {
	if m.setStart == nil {
		return time.Time{}, false
	}
	return *m.setStart, true
}

// LapsInSet returns laps swum in the current set; 0 while not Swimming.
func (m *Machine) LapsInSet() int {
	if m.setStart == nil {
		return 0
	}
	laps := m.extLaps - m.lapBaseline
	if laps < 0 {
		return 0
	}
	return laps
}

// TotalLaps returns the external counter's latest value.
func (m *Machine) TotalLaps() int { return m.extLaps }

// Sets returns a copy of the finalized set records.
func (m *Machine) Sets() []SetRecord {
	out := make([]SetRecord, len(m.sets))
	copy(out, m.sets)
	return out
}

// SetCount returns the number of finalized sets.
func (m *Machine) SetCount() int { return len(m.sets) }

// Elapsed returns workout time accrued since the first Swimming transition,
// excluding paused stretches. Zero until the first set begins.
func (m *Machine) Elapsed(now time.Time) time.Duration {
	d := m.accrued
	if m.runningSince != nil {
		d += now.Sub(*m.runningSince)
	}
	return d
}
