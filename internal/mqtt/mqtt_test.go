package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/joeldrotleff/JustSwim/internal/session"
)

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFormatTransitionPayload(t *testing.T) {
	tr := session.ManualTransition{
		Time:     base.Add(1500 * time.Millisecond),
		Swimming: true,
	}

	data, err := FormatTransitionPayload("abc-123", tr)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}

	var payload TransitionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Transition.SessionID != "abc-123" {
		t.Errorf("unexpected session id: %q", payload.Transition.SessionID)
	}
	if payload.Transition.Timestamp != "2026-01-01T12:00:01.5Z" {
		t.Errorf("unexpected timestamp: %q", payload.Transition.Timestamp)
	}
	if !payload.Transition.Swimming {
		t.Error("expected swimming true")
	}
}

func TestFormatSetPayload(t *testing.T) {
	rec := session.SetRecord{
		Start:     base,
		End:       base.Add(92 * time.Second),
		Laps:      4,
		Corrected: true,
	}

	data, err := FormatSetPayload("abc-123", rec)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}

	var payload SetPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Set.SessionID != "abc-123" {
		t.Errorf("unexpected session id: %q", payload.Set.SessionID)
	}
	if payload.Set.Start != "2026-01-01T12:00:00Z" {
		t.Errorf("unexpected start: %q", payload.Set.Start)
	}
	if payload.Set.End != "2026-01-01T12:01:32Z" {
		t.Errorf("unexpected end: %q", payload.Set.End)
	}
	if payload.Set.DurationSeconds != 92 {
		t.Errorf("unexpected duration: %v", payload.Set.DurationSeconds)
	}
	if payload.Set.Laps != 4 {
		t.Errorf("unexpected laps: %d", payload.Set.Laps)
	}
	if !payload.Set.Corrected {
		t.Error("expected corrected true")
	}
}

func TestFormatSessionPayloadStarted(t *testing.T) {
	data, err := FormatSessionPayload(SessionEvent{
		Timestamp: base,
		SessionID: "abc-123",
		Event:     "STARTED",
		Pool:      session.Pool{Length: 25, Unit: "m"},
	})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}

	var payload SessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Session.Event != "STARTED" {
		t.Errorf("unexpected event: %q", payload.Session.Event)
	}
	if payload.Session.PoolLength != 25 || payload.Session.PoolUnit != "m" {
		t.Errorf("unexpected pool: %v%v", payload.Session.PoolLength, payload.Session.PoolUnit)
	}
	if len(payload.Session.Sets) != 0 {
		t.Errorf("STARTED should carry no sets, got %d", len(payload.Session.Sets))
	}
}

func TestFormatSessionPayloadCompletedCarriesSets(t *testing.T) {
	data, err := FormatSessionPayload(SessionEvent{
		Timestamp: base.Add(30 * time.Minute),
		SessionID: "abc-123",
		Event:     "COMPLETED",
		Pool:      session.Pool{Length: 25, Unit: "m"},
		Sets: []session.SetRecord{
			{Start: base, End: base.Add(time.Minute), Laps: 2, Corrected: true},
			{Start: base.Add(2 * time.Minute), End: base.Add(3 * time.Minute), Laps: 2},
		},
	})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}

	var payload SessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(payload.Session.Sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(payload.Session.Sets))
	}
	if !payload.Session.Sets[0].Corrected || payload.Session.Sets[1].Corrected {
		t.Error("corrected flags lost in payload")
	}
	if payload.Session.Sets[0].SessionID != "abc-123" {
		t.Errorf("unexpected set session id: %q", payload.Session.Sets[0].SessionID)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: base,
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}

	var payload SystemPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.System.Event != "SHUTDOWN" || payload.System.Reason != "SIGTERM" {
		t.Errorf("unexpected payload: %+v", payload.System)
	}
	if payload.System.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("unexpected timestamp: %q", payload.System.Timestamp)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"phase":"ACTIVE"}}`)
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp:  base,
		Event:      "HEARTBEAT",
		RawPayload: raw,
	})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishTransition("abc", session.ManualTransition{Time: base, Swimming: true}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := f.PublishSet("abc", session.SetRecord{Start: base, End: base.Add(time.Minute)}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(f.Transitions) != 1 || len(f.Sets) != 1 || len(f.Payloads) != 2 {
		t.Errorf("fake did not record: %d transitions, %d sets, %d payloads",
			len(f.Transitions), len(f.Sets), len(f.Payloads))
	}

	f.Reset()
	if len(f.Transitions) != 0 || len(f.Payloads) != 0 {
		t.Error("reset did not clear recordings")
	}
}
