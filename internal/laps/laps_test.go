package laps

import (
	"testing"
)

// fakeMessage implements paho.Message for onMessage tests.
type fakeMessage struct {
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return Topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func receive(t *testing.T, c *MQTTCounter) (int, bool) {
	t.Helper()
	select {
	case n := <-c.Counts():
		return n, true
	default:
		return 0, false
	}
}

func TestOnMessageForwardsIncreasingCounts(t *testing.T) {
	c := &MQTTCounter{counts: make(chan int, 8)}

	c.onMessage(nil, fakeMessage{payload: []byte(`{"laps": 3}`)})
	c.onMessage(nil, fakeMessage{payload: []byte(`{"laps": 7}`)})

	if n, ok := receive(t, c); !ok || n != 3 {
		t.Errorf("expected 3, got %d (ok=%v)", n, ok)
	}
	if n, ok := receive(t, c); !ok || n != 7 {
		t.Errorf("expected 7, got %d (ok=%v)", n, ok)
	}
}

func TestOnMessageIgnoresNonIncreasing(t *testing.T) {
	c := &MQTTCounter{counts: make(chan int, 8)}

	c.onMessage(nil, fakeMessage{payload: []byte(`{"laps": 5}`)})
	c.onMessage(nil, fakeMessage{payload: []byte(`{"laps": 5}`)}) // duplicate
	c.onMessage(nil, fakeMessage{payload: []byte(`{"laps": 2}`)}) // stale

	if n, ok := receive(t, c); !ok || n != 5 {
		t.Fatalf("expected 5, got %d (ok=%v)", n, ok)
	}
	if n, ok := receive(t, c); ok {
		t.Errorf("stale count forwarded: %d", n)
	}
}

func TestOnMessageIgnoresBadPayload(t *testing.T) {
	c := &MQTTCounter{counts: make(chan int, 8)}

	c.onMessage(nil, fakeMessage{payload: []byte(`not json`)})

	if n, ok := receive(t, c); ok {
		t.Errorf("bad payload produced a count: %d", n)
	}
}

func TestFakeCounter(t *testing.T) {
	f := NewFakeCounter()
	f.Push(4)

	select {
	case n := <-f.Counts():
		if n != 4 {
			t.Errorf("expected 4, got %d", n)
		}
	default:
		t.Fatal("expected a count")
	}

	f.Close()
	if !f.Closed {
		t.Error("close not recorded")
	}
}
