package mqtt

import (
	"github.com/joeldrotleff/JustSwim/internal/session"
)

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Transitions contains all manual toggles that were published.
	Transitions []session.ManualTransition

	// Sets contains all set records that were published.
	Sets []session.SetRecord

	// SessionEvents contains all session lifecycle events.
	SessionEvents []SessionEvent

	// SystemEvents contains all daemon lifecycle events.
	SystemEvents []SystemEvent

	// Payloads contains the JSON payloads in publish order.
	Payloads [][]byte

	// PublishError, if set, will be returned by every Publish method.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTransition records the toggle.
func (f *FakePublisher) PublishTransition(sessionID string, t session.ManualTransition) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Transitions = append(f.Transitions, t)
	return f.record(FormatTransitionPayload(sessionID, t))
}

// PublishSet records the set record.
func (f *FakePublisher) PublishSet(sessionID string, rec session.SetRecord) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Sets = append(f.Sets, rec)
	return f.record(FormatSetPayload(sessionID, rec))
}

// PublishSession records the session event.
func (f *FakePublisher) PublishSession(event SessionEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.SessionEvents = append(f.SessionEvents, event)
	return f.record(FormatSessionPayload(event))
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return f.record(FormatSystemPayload(event))
}

func (f *FakePublisher) record(payload []byte, err error) error {
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Transitions = nil
	f.Sets = nil
	f.SessionEvents = nil
	f.SystemEvents = nil
	f.Payloads = nil
	f.Closed = false
	f.PublishError = nil
	f.Connected = false
}
