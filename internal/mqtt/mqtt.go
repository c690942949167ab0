// Package mqtt hands session records to the external workout service over
// MQTT, with abstraction for testing. Publish failures are surfaced to the
// caller but never roll back timing state: the in-progress workout is
// authoritative regardless of persistence.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/joeldrotleff/JustSwim/internal/session"
)

// Topics for workout records and lifecycle events.
const (
	// TopicTransitions carries one message per manual swim/rest toggle.
	TopicTransitions = "justswim/transitions"

	// TopicSets carries finalized set records.
	TopicSets = "justswim/sets"

	// TopicSession carries session lifecycle (started, paused, resumed,
	// completed with final set summary).
	TopicSession = "justswim/session"

	// TopicSystem carries daemon lifecycle (startup, shutdown, heartbeat).
	TopicSystem = "justswim/system"
)

// Publisher publishes workout records to MQTT.
type Publisher interface {
	// PublishTransition sends a manual phase toggle.
	// Returns error if publishing fails (should not crash the process).
	PublishTransition(sessionID string, t session.ManualTransition) error

	// PublishSet sends a finalized set record.
	PublishSet(sessionID string, rec session.SetRecord) error

	// PublishSession sends a session lifecycle event.
	PublishSession(event SessionEvent) error

	// PublishSystem sends a daemon lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SessionEvent is a workout session lifecycle event.
type SessionEvent struct {
	Timestamp time.Time
	SessionID string
	Event     string // "STARTED", "PAUSED", "RESUMED", "COMPLETED"
	Pool      session.Pool
	Sets      []session.SetRecord // populated for COMPLETED
}

// SystemEvent is a daemon lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// TransitionPayload is the MQTT message for one manual toggle.
type TransitionPayload struct {
	Transition TransitionInner `json:"transition"`
}

// TransitionInner contains the toggle details.
type TransitionInner struct {
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
	Swimming  bool   `json:"swimming"`
}

// FormatTransitionPayload creates the JSON payload for a toggle.
func FormatTransitionPayload(sessionID string, t session.ManualTransition) ([]byte, error) {
	payload := TransitionPayload{
		Transition: TransitionInner{
			SessionID: sessionID,
			Timestamp: t.Time.UTC().Format(time.RFC3339Nano),
			Swimming:  t.Swimming,
		},
	}
	return json.Marshal(payload)
}

// SetPayload is the MQTT message for one finalized set.
type SetPayload struct {
	Set SetInner `json:"set"`
}

// SetInner contains the set record details.
type SetInner struct {
	SessionID       string  `json:"session_id"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationSeconds float64 `json:"duration_seconds"`
	Laps            int     `json:"laps"`
	Corrected       bool    `json:"corrected"`
}

func setInner(sessionID string, rec session.SetRecord) SetInner {
	return SetInner{
		SessionID:       sessionID,
		Start:           rec.Start.UTC().Format(time.RFC3339Nano),
		End:             rec.End.UTC().Format(time.RFC3339Nano),
		DurationSeconds: rec.Duration().Seconds(),
		Laps:            rec.Laps,
		Corrected:       rec.Corrected,
	}
}

// FormatSetPayload creates the JSON payload for a set record.
func FormatSetPayload(sessionID string, rec session.SetRecord) ([]byte, error) {
	return json.Marshal(SetPayload{Set: setInner(sessionID, rec)})
}

// SessionPayload is the MQTT message for a session lifecycle event.
type SessionPayload struct {
	Session SessionInner `json:"session"`
}

// SessionInner contains the session event details.
type SessionInner struct {
	SessionID  string     `json:"session_id"`
	Timestamp  string     `json:"timestamp"`
	Event      string     `json:"event"`
	PoolLength float64    `json:"pool_length,omitempty"`
	PoolUnit   string     `json:"pool_unit,omitempty"`
	Sets       []SetInner `json:"sets,omitempty"`
}

// FormatSessionPayload creates the JSON payload for a session event.
func FormatSessionPayload(event SessionEvent) ([]byte, error) {
	inner := SessionInner{
		SessionID:  event.SessionID,
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
		Event:      event.Event,
		PoolLength: event.Pool.Length,
		PoolUnit:   event.Pool.Unit,
	}
	for _, rec := range event.Sets {
		inner.Sets = append(inner.Sets, setInner(event.SessionID, rec))
	}
	return json.Marshal(SessionPayload{Session: inner})
}

// SystemPayload is the MQTT message for simple system events that don't
// carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
