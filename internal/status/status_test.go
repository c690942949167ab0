package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/joeldrotleff/JustSwim/internal/motion"
	"github.com/joeldrotleff/JustSwim/internal/session"
)

var start = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

var testCfg = Config{
	SampleMs:    50,
	HeartbeatMs: 900000,
	Broker:      "tcp://broker.local:1883",
	HTTPAddr:    ":8080",
	PoolLength:  25,
	PoolUnit:    "m",
}

func TestNewTracker(t *testing.T) {
	tr := NewTracker(start, testCfg)
	snap := tr.Snapshot()

	if snap.Workout.Phase != session.PhasePreStart {
		t.Errorf("expected PRE_START, got %s", snap.Workout.Phase)
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("unexpected start time: %v", snap.StartTime)
	}
	if snap.Config.Broker != testCfg.Broker {
		t.Errorf("config lost: %+v", snap.Config)
	}
	if snap.TapsDetected != 0 || snap.CorrectedSets != 0 {
		t.Error("counters should start at zero")
	}
}

func TestUpdateWorkout(t *testing.T) {
	tr := NewTracker(start, testCfg)
	tr.UpdateWorkout(Workout{
		Phase:     session.PhaseActive,
		Swim:      session.SwimSwimming,
		SessionID: "abc",
		SetCount:  2,
		LapsInSet: 3,
		TotalLaps: 11,
		Elapsed:   90 * time.Second,
	})

	snap := tr.Snapshot()
	if snap.Workout.Swim != session.SwimSwimming || snap.Workout.SetCount != 2 {
		t.Errorf("workout not updated: %+v", snap.Workout)
	}
}

func TestRecordTap(t *testing.T) {
	tr := NewTracker(start, testCfg)

	tr.RecordTap(motion.TapEvent{Time: start.Add(time.Minute), Magnitude: 1.6})
	tr.RecordTap(motion.TapEvent{Time: start.Add(2 * time.Minute), Magnitude: 1.4})

	snap := tr.Snapshot()
	if snap.TapsDetected != 2 {
		t.Errorf("expected 2 taps, got %d", snap.TapsDetected)
	}
	if snap.LastTap == nil || snap.LastTap.Magnitude != 1.4 {
		t.Errorf("unexpected last tap: %+v", snap.LastTap)
	}
}

func TestRecordSetCountsCorrected(t *testing.T) {
	tr := NewTracker(start, testCfg)

	tr.RecordSet(session.SetRecord{Start: start, End: start.Add(time.Minute), Corrected: true})
	tr.RecordSet(session.SetRecord{Start: start.Add(2 * time.Minute), End: start.Add(3 * time.Minute)})

	snap := tr.Snapshot()
	if snap.CorrectedSets != 1 {
		t.Errorf("expected 1 corrected set, got %d", snap.CorrectedSets)
	}
	if len(snap.RecentSets) != 2 {
		t.Errorf("expected 2 recent sets, got %d", len(snap.RecentSets))
	}
}

func TestRecentSetsCapped(t *testing.T) {
	tr := NewTracker(start, testCfg)

	for i := 0; i < 15; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		tr.RecordSet(session.SetRecord{Start: at, End: at.Add(30 * time.Second), Laps: i})
	}

	snap := tr.Snapshot()
	if len(snap.RecentSets) != recentSetsCap {
		t.Fatalf("expected %d recent sets, got %d", recentSetsCap, len(snap.RecentSets))
	}
	// The newest sets survive.
	if snap.RecentSets[len(snap.RecentSets)-1].Laps != 14 {
		t.Errorf("newest set missing: %+v", snap.RecentSets[len(snap.RecentSets)-1])
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	tr := NewTracker(start, testCfg)
	tr.RecordSet(session.SetRecord{Start: start, End: start.Add(time.Minute), Laps: 2})

	snap := tr.Snapshot()
	snap.RecentSets[0].Laps = 99

	if tr.Snapshot().RecentSets[0].Laps == 99 {
		t.Error("snapshot shares the recent-sets slice with the tracker")
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(start, testCfg)
	tr.UpdateWorkout(Workout{
		Phase:     session.PhaseActive,
		Swim:      session.SwimSwimming,
		SessionID: "abc",
		SetCount:  1,
		LapsInSet: 2,
		TotalLaps: 6,
		Elapsed:   95 * time.Second,
	})
	tr.RecordTap(motion.TapEvent{Time: start.Add(time.Minute), Magnitude: 1.62})
	tr.RecordSet(session.SetRecord{
		Start: start, End: start.Add(90 * time.Second), Laps: 4, Corrected: true,
	})

	data := FormatJSON(tr.Snapshot())

	var parsed struct {
		Status StatusInner `json:"status"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	s := parsed.Status
	if s.Phase != "ACTIVE" || s.SwimState != "SWIMMING" {
		t.Errorf("unexpected phase/state: %s/%s", s.Phase, s.SwimState)
	}
	if s.ElapsedSec != 95 {
		t.Errorf("unexpected elapsed: %v", s.ElapsedSec)
	}
	if s.LastTap == nil || s.LastTap.Magnitude != 1.62 {
		t.Errorf("unexpected last tap: %+v", s.LastTap)
	}
	if len(s.Sets) != 1 || !s.Sets[0].Corrected || s.Sets[0].DurationSeconds != 90 {
		t.Errorf("unexpected sets: %+v", s.Sets)
	}
	if s.MQTT.Broker != testCfg.Broker {
		t.Errorf("unexpected broker: %q", s.MQTT.Broker)
	}
	if s.Event != "" {
		t.Errorf("web JSON must not carry an event, got %q", s.Event)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(start, testCfg)
	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var parsed struct {
		Status StatusInner `json:"status"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("unexpected event fields: %+v", parsed.Status)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("MQTT status payload should be compact")
	}
}
